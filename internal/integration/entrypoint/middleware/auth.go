// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinic-finance/backend/internal/application/adapter"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	UserIDKey    ContextKey = "user_id"
	UserEmailKey ContextKey = "user_email"
)

const bearerPrefix = "Bearer "

// AuthMiddleware admits requests carrying a bearer token issued by the clinic's
// identity provider. Tokens are validated only; this API never issues them.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate returns a Gin handler that rejects unauthenticated requests with 401.
// On success the operator identity is stored on the context and the request
// logger gains the operator fields.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, "Authorization header is required", domainerror.ErrCodeMissingToken)
			return
		}

		token, found := strings.CutPrefix(header, bearerPrefix)
		if !found {
			reject(c, "Invalid authorization header format", domainerror.ErrCodeInvalidToken)
			return
		}
		if strings.TrimSpace(token) == "" {
			reject(c, "Token is required", domainerror.ErrCodeMissingToken)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			code := domainerror.ErrCodeInvalidToken
			if errors.Is(err, domainerror.ErrExpiredToken) {
				code = domainerror.ErrCodeExpiredToken
			}
			LoggerFromContext(c).Info("Rejected bearer token", "code", code, "error", err)
			reject(c, "Invalid or expired token", code)
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserEmailKey), claims.Email)
		c.Set(string(LoggerKey), LoggerFromContext(c).With(
			"user_id", claims.UserID,
			"operator", claims.Email,
		))

		c.Next()
	}
}

func reject(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// GetUserIDFromContext returns the authenticated operator's id.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(string(UserIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetUserEmailFromContext returns the authenticated operator's email.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(string(UserEmailKey))
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	return email, ok
}
