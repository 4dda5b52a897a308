package models

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ValidationError names the first field of a record that failed a check
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (ve *ValidationError) Error() string {
	return ve.Message
}

func fieldError(field string, value interface{}, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Value: value}
}

// SanitizeString trims s and collapses inner whitespace runs to a single space.
// Names are stored this way so lookups and invoice headers match what users typed.
func SanitizeString(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

func ValidateRequired(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, value, "%s is required", field)
	}
	return nil
}

// ValidateStringLength bounds the trimmed length. A zero bound is not checked.
func ValidateStringLength(value, field string, min, max int) error {
	n := len(strings.TrimSpace(value))
	switch {
	case min > 0 && n < min:
		return fieldError(field, value, "%s must be at least %d characters", field, min)
	case max > 0 && n > max:
		return fieldError(field, value, "%s cannot exceed %d characters", field, max)
	}
	return nil
}

// ValidateEmail accepts an empty value; client emails are optional
func ValidateEmail(email, field string) error {
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return fieldError(field, email, "Invalid email format")
	}
	return nil
}

// ValidateNonNegative is used for prices, flat discounts and tax rates
func ValidateNonNegative(value float64, field string) error {
	if value < 0 {
		return fieldError(field, value, "%s cannot be negative", field)
	}
	return nil
}

func ValidatePercentage(value float64, field string) error {
	if value < 0 || value > 100 {
		return fieldError(field, value, "%s must be between 0 and 100", field)
	}
	return nil
}

func ValidatePositiveInteger(value int, field string) error {
	if value <= 0 {
		return fieldError(field, value, "%s must be greater than 0", field)
	}
	return nil
}

// ValidateEnum checks value against the allowed wire values of a status or method
func ValidateEnum(value string, allowed []string, field string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fieldError(field, value, "%s must be one of: %s", field, strings.Join(allowed, ", "))
}
