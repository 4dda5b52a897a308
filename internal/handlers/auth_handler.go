package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AmanMalviya08/Bill-app-backend/internal/middleware"
)

// AuthHandler handles token HTTP requests. It never authenticates credentials.
type AuthHandler struct {
	responder
	authService *middleware.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *middleware.AuthService, r responder) *AuthHandler {
	return &AuthHandler{responder: r, authService: authService}
}

// TokenResponse represents an issued token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo represents the identity carried by a token
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// TokenRequest carries a token to refresh or validate
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// DevTokenRequest selects the identity of a development token
type DevTokenRequest struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (h *AuthHandler) tokenResponse(c *gin.Context, token string) {
	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.NewErrorResponse(c, "TOKEN_ERROR", "Failed to validate issued token"))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      UserInfo{ID: claims.UserID, Username: claims.Username, Roles: claims.Roles},
	})
}

// @Summary Refresh Token
// @Description Exchange a valid token for a fresh one with the same identity
// @Tags auth
// @Accept json
// @Produce json
// @Param token body TokenRequest true "Token to refresh"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req TokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	newToken, err := h.authService.RefreshToken(req.Token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.NewErrorResponse(c, "INVALID_TOKEN", "Invalid or expired token"))
		return
	}
	h.tokenResponse(c, newToken)
}

// @Summary Validate Token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body TokenRequest true "Token to validate"
// @Success 200 {object} UserInfo
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/validate [post]
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req TokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	claims, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.NewErrorResponse(c, "INVALID_TOKEN", "Invalid or expired token"))
		return
	}
	c.JSON(http.StatusOK, UserInfo{ID: claims.UserID, Username: claims.Username, Roles: claims.Roles})
}

// @Summary Get Current User
// @Description Get the identity of the authenticated caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.NewErrorResponse(c, "UNAUTHORIZED", "Authentication required"))
		return
	}
	c.JSON(http.StatusOK, UserInfo{ID: claims.UserID, Username: claims.Username, Roles: claims.Roles})
}

// IssueDevToken issues a token for local testing. Only mounted outside production.
func (h *AuthHandler) IssueDevToken(c *gin.Context) {
	req := DevTokenRequest{}
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = "dev-user"
	}
	if req.Username == "" {
		req.Username = "dev"
	}
	if len(req.Roles) == 0 {
		req.Roles = []string{string(middleware.RoleAdmin)}
	}

	token, err := h.authService.GenerateToken(req.UserID, req.Username, req.Roles)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue development token")
		c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.NewErrorResponse(c, "TOKEN_ERROR", "Failed to issue token"))
		return
	}
	h.tokenResponse(c, token)
}
