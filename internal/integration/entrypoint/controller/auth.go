package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftcircle/backend/internal/application/usecase/auth"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

// AuthController serves the /auth routes: account creation, sessions and
// the current user.
type AuthController struct {
	registerUseCase     *auth.RegisterUserUseCase
	loginUseCase        *auth.LoginUserUseCase
	refreshTokenUseCase *auth.RefreshTokenUseCase
	logoutUseCase       *auth.LogoutUserUseCase
	currentUserUseCase  *auth.GetCurrentUserUseCase
}

func NewAuthController(
	registerUseCase *auth.RegisterUserUseCase,
	loginUseCase *auth.LoginUserUseCase,
	refreshTokenUseCase *auth.RefreshTokenUseCase,
	logoutUseCase *auth.LogoutUserUseCase,
	currentUserUseCase *auth.GetCurrentUserUseCase,
) *AuthController {
	return &AuthController{
		registerUseCase:     registerUseCase,
		loginUseCase:        loginUseCase,
		refreshTokenUseCase: refreshTokenUseCase,
		logoutUseCase:       logoutUseCase,
		currentUserUseCase:  currentUserUseCase,
	}
}

// Register handles POST /auth/register requests.
func (c *AuthController) Register(ctx *gin.Context) {
	req, ok := bindJSON[dto.RegisterRequest](ctx, string(domainerror.ErrCodeMissingFields))
	if !ok {
		return
	}

	out, err := c.registerUseCase.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToAuthResponse(out.Session, out.User))
}

// Login handles POST /auth/login requests.
func (c *AuthController) Login(ctx *gin.Context) {
	req, ok := bindJSON[dto.LoginRequest](ctx, string(domainerror.ErrCodeMissingFields))
	if !ok {
		return
	}

	out, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToAuthResponse(out.Session, out.User))
}

// RefreshToken handles POST /auth/refresh. The presented refresh token is
// spent and a new pair is returned.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	req, ok := bindJSON[dto.RefreshTokenRequest](ctx, string(domainerror.ErrCodeMissingToken))
	if !ok {
		return
	}

	out, err := c.refreshTokenUseCase.Execute(ctx.Request.Context(), auth.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTokenResponse(out.Session))
}

// Logout handles POST /auth/logout. It succeeds even for unknown tokens.
func (c *AuthController) Logout(ctx *gin.Context) {
	req, ok := bindJSON[dto.RefreshTokenRequest](ctx, string(domainerror.ErrCodeMissingToken))
	if !ok {
		return
	}

	err := c.logoutUseCase.Execute(ctx.Request.Context(), auth.LogoutUserInput{RefreshToken: req.RefreshToken})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully logged out"})
}

// Me handles GET /auth/me.
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := c.currentUserUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}
