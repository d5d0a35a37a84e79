// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

// identityKey is the gin context key holding the caller's *adapter.Identity.
const identityKey = "identity"

// AuthMiddleware guards routes with bearer access tokens.
type AuthMiddleware struct {
	tokens adapter.TokenService
}

func NewAuthMiddleware(tokens adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate rejects requests without a valid access token. On success the
// verified identity is available through CurrentIdentity.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, msg := bearerToken(c.GetHeader("Authorization"))
		if code != "" {
			unauthorized(c, msg, code)
			return
		}

		identity, err := m.tokens.VerifyAccessToken(c.Request.Context(), token)
		if errors.Is(err, domainerror.ErrExpiredToken) {
			unauthorized(c, "Token has expired", domainerror.ErrCodeExpiredToken)
			return
		}
		if err != nil {
			unauthorized(c, "Invalid or expired token", domainerror.ErrCodeInvalidToken)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. A
// non-empty code means the header was unusable.
func bearerToken(header string) (token string, code domainerror.AuthErrorCode, msg string) {
	if header == "" {
		return "", domainerror.ErrCodeMissingToken, "Authorization header is required"
	}
	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", domainerror.ErrCodeInvalidToken, "Invalid authorization header format"
	}
	if token = strings.TrimSpace(rest); token == "" {
		return "", domainerror.ErrCodeMissingToken, "Token is required"
	}
	return token, "", ""
}

func unauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
		Kind:  string(domainerror.KindAuthorization),
	})
}

// CurrentIdentity returns the identity stored by Authenticate.
func CurrentIdentity(c *gin.Context) (*adapter.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*adapter.Identity)
	return identity, ok && identity != nil
}

// GetUserIDFromContext returns the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return uuid.Nil, false
	}
	return identity.UserID, true
}
