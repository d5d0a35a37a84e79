package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
	"github.com/giftcircle/backend/internal/integration/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct {
	adapter.TokenService
	valid    string
	identity *adapter.Identity
}

func (s *stubTokens) VerifyAccessToken(_ context.Context, token string) (*adapter.Identity, error) {
	if token == "stale" {
		return nil, fmt.Errorf("%w: %w", domainerror.ErrInvalidToken, domainerror.ErrExpiredToken)
	}
	if token != s.valid {
		return nil, errors.New("bad token")
	}
	return s.identity, nil
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	tokens := &stubTokens{valid: "good", identity: &adapter.Identity{UserID: userID, Email: "ana@example.com"}}

	router := gin.New()
	router.GET("/me", NewAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		id, ok := GetUserIDFromContext(c)
		require.True(t, ok)
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "email": identity.Email})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "AUTH-030003"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "AUTH-030001"},
		{"no token after scheme", "Bearer ", http.StatusUnauthorized, "AUTH-030003"},
		{"rejected token", "Bearer forged", http.StatusUnauthorized, "AUTH-030001"},
		{"expired token", "Bearer stale", http.StatusUnauthorized, "AUTH-030002"},
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"scheme is case insensitive", "bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var body dto.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
				assert.Equal(t, "authorization", body.Kind)
				return
			}
			assert.JSONEq(t, `{"id":"`+userID.String()+`","email":"ana@example.com"}`, rec.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), nil, "ratelimit:login:", 2, time.Minute)
	router := gin.New()
	router.POST("/login", RateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send("10.0.0.1")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1").Code)

	blocked := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, blocked.Body.String(), "AUTH-020003")

	assert.Equal(t, http.StatusNoContent, send("10.0.0.2").Code)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	router := gin.New()
	router.GET("/x", RateLimit(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(300*time.Millisecond))
	assert.Equal(t, 2, retryAfterSeconds(1500*time.Millisecond))
	assert.Equal(t, 60, retryAfterSeconds(time.Minute))
}
