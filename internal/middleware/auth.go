package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// UserRole represents user roles in the system
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleAccountant UserRole = "accountant"
	RoleCashier    UserRole = "cashier"
)

// Context keys set by Authentication
const (
	UserIDKey     = "user_id"
	UsernameKey   = "username"
	RolesKey      = "roles"
	ClaimsKey     = "claims"
	companyParam  = "companyId"
	defaultIssuer = "billing-api"
)

// Claims represents JWT claims
type Claims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
	Issuer        string
}

// AuthService issues and validates HS256 tokens
type AuthService struct {
	config *AuthConfig
	now    func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig) *AuthService {
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}
	return &AuthService{config: config, now: time.Now}
}

// GenerateToken generates a JWT token for a user
func (a *AuthService) GenerateToken(userID, username string, roles []string) (string, error) {
	now := a.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.config.Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(a.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.config.JWTSecret), nil
	}, jwt.WithIssuer(a.config.Issuer), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RefreshToken generates a new token with extended expiration
func (a *AuthService) RefreshToken(tokenString string) (string, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return "", fmt.Errorf("invalid token for refresh: %w", err)
	}
	return a.GenerateToken(claims.UserID, claims.Username, claims.Roles)
}

// Authentication middleware that validates bearer tokens
func Authentication(authService *AuthService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header must be: Bearer <token>")
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"path":       c.Request.URL.Path,
			}).WithError(err).Warn("Token validation failed")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RolesKey, claims.Roles)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Authorization middleware that requires any of the given roles
func Authorization(logger *logrus.Logger, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(requiredRoles) == 0 {
			c.Next()
			return
		}

		for _, role := range requiredRoles {
			if HasRole(c, role) {
				c.Next()
				return
			}
		}

		logger.WithFields(logrus.Fields{
			"user_id":        c.GetString(UserIDKey),
			"required_roles": requiredRoles,
			"path":           c.Request.URL.Path,
		}).Warn("Authorization failed - insufficient permissions")
		abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
	}
}

// GetClaims returns the validated token claims of the request
func GetClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}

// HasRole checks if the current user has a specific role
func HasRole(c *gin.Context, role string) bool {
	claims, ok := GetClaims(c)
	if !ok {
		return false
	}
	for _, userRole := range claims.Roles {
		if userRole == role {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
