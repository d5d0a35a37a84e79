// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
	"github.com/giftcircle/backend/internal/integration/entrypoint/middleware"
)

var kindStatus = map[domainerror.Kind]int{
	domainerror.KindValidation:    http.StatusBadRequest,
	domainerror.KindAuthorization: http.StatusForbidden,
	domainerror.KindNotFound:      http.StatusNotFound,
	domainerror.KindConflict:      http.StatusConflict,
}

// respondError writes err as a JSON error body. Coded errors keep their
// message; anything else is logged and hidden behind a generic 500.
func respondError(ctx *gin.Context, err error) {
	kind := domainerror.KindOf(err)
	code, message, ok := domainerror.Public(err)
	if !ok || kind == domainerror.KindInvariant || kind == domainerror.KindInternal {
		if kind == domainerror.KindInvariant {
			slog.Error("Invariant violated", "invariant", true, "error", err, "path", ctx.FullPath())
		} else {
			slog.Error("Request failed", "error", err, "path", ctx.FullPath())
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Kind:  string(kind),
		})
		return
	}

	ctx.JSON(statusFor(err, kind), dto.ErrorResponse{
		Error: message,
		Code:  code,
		Kind:  string(kind),
	})
}

func statusFor(err error, kind domainerror.Kind) int {
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Code {
		case domainerror.ErrCodeInvalidCredentials,
			domainerror.ErrCodeInvalidToken,
			domainerror.ErrCodeExpiredToken,
			domainerror.ErrCodeMissingToken:
			return http.StatusUnauthorized
		case domainerror.ErrCodeRateLimited:
			return http.StatusTooManyRequests
		}
	}
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// bindJSON decodes the request body into T, answering 400 with code when it
// does not bind.
func bindJSON[T any](ctx *gin.Context, code string) (T, bool) {
	var req T
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", code)
		return req, false
	}
	return req, true
}

func badRequest(ctx *gin.Context, message, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
		Kind:  string(domainerror.KindValidation),
	})
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
			Kind:  string(domainerror.KindAuthorization),
		})
	}
	return userID, ok
}

// uuidParam parses a path parameter or writes a 400.
func uuidParam(ctx *gin.Context, name, notFoundCode string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid "+name+" format", notFoundCode)
		return uuid.Nil, false
	}
	return id, true
}
