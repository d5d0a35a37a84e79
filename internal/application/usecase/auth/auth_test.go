package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/adapters"
	"github.com/giftcircle/backend/internal/integration/persistence"
	"github.com/giftcircle/backend/internal/testutil"
)

type authFixture struct {
	store     *testutil.Store
	passwords adapter.PasswordHasher
	tokens    adapter.TokenService
}

func newAuthFixture(t *testing.T) *authFixture {
	s := testutil.NewStore(t)
	return &authFixture{
		store:     s,
		passwords: adapters.NewPasswordHasher(bcrypt.MinCost),
		tokens: adapters.NewTokenService("test-secret", adapters.TokenDurations{
			Access:  time.Minute,
			Refresh: time.Hour,
		}, persistence.NewSessionRepository(s.DB)),
	}
}

func (f *authFixture) register(t *testing.T, email, name, password string) (*RegisterUserOutput, error) {
	return NewRegisterUserUseCase(f.store.Users, f.passwords, f.tokens).Execute(context.Background(), RegisterUserInput{
		Email:    email,
		Name:     name,
		Password: password,
	})
}

func TestRegisterUser(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.register(t, "  Ana@Example.COM ", " Ana ", "navidad2030")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", out.User.Email)
	assert.Equal(t, "Ana", out.User.Name)
	assert.NotEqual(t, "navidad2030", out.User.PasswordHash)
	assert.NotEmpty(t, out.Session.AccessToken)

	identity, err := f.tokens.VerifyAccessToken(context.Background(), out.Session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, identity.UserID)
	assert.Equal(t, "ana@example.com", identity.Email)

	_, err = f.register(t, "ana@example.com", "Otra Ana", "navidad2031")
	assert.ErrorIs(t, err, domainerror.ErrEmailAlreadyExists)
	assert.True(t, domainerror.IsKind(err, domainerror.KindConflict))
}

func TestRegisterUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		password string
		wantCode domainerror.AuthErrorCode
	}{
		{"missing email", "", "Ana", "navidad2030", domainerror.ErrCodeMissingFields},
		{"missing name", "ana@example.com", "  ", "navidad2030", domainerror.ErrCodeMissingFields},
		{"long name", "ana@example.com", strings.Repeat("a", MaxNameLength+1), "navidad2030", domainerror.ErrCodeMissingFields},
		{"malformed email", "ana.example.com", "Ana", "navidad2030", domainerror.ErrCodeInvalidEmail},
		{"display name form", "Ana <ana@example.com>", "Ana", "navidad2030", domainerror.ErrCodeInvalidEmail},
		{"short password", "ana@example.com", "Ana", "corta", domainerror.ErrCodeWeakPassword},
		{"password past bcrypt limit", "ana@example.com", "Ana", strings.Repeat("x", MaxPasswordLength+1), domainerror.ErrCodeWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			_, err := f.register(t, tt.email, tt.userName, tt.password)

			var authErr *domainerror.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantCode, authErr.Code)
			assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
		})
	}
}

func TestLoginUser(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.register(t, "ana@example.com", "Ana", "navidad2030")
	require.NoError(t, err)
	login := NewLoginUserUseCase(f.store.Users, f.passwords, f.tokens)

	out, err := login.Execute(context.Background(), LoginUserInput{Email: "ANA@example.com", Password: "navidad2030"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.User.Name)

	_, err = login.Execute(context.Background(), LoginUserInput{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerror.ErrInvalidCredentials)

	_, err = login.Execute(context.Background(), LoginUserInput{Email: "nadie@example.com", Password: "navidad2030"})
	assert.ErrorIs(t, err, domainerror.ErrInvalidCredentials)
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	f := newAuthFixture(t)
	registered, err := f.register(t, "ana@example.com", "Ana", "navidad2030")
	require.NoError(t, err)
	refresh := NewRefreshTokenUseCase(f.tokens)

	rotated, err := refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: registered.Session.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.Session.RefreshToken, rotated.Session.RefreshToken)

	_, err = refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: registered.Session.RefreshToken})
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)

	_, err = refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: registered.Session.AccessToken})
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)

	require.NoError(t, NewLogoutUserUseCase(f.tokens).Execute(context.Background(), LogoutUserInput{RefreshToken: rotated.Session.RefreshToken}))
	_, err = refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: rotated.Session.RefreshToken})
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
	assert.True(t, domainerror.IsKind(err, domainerror.KindAuthorization))

	require.NoError(t, NewLogoutUserUseCase(f.tokens).Execute(context.Background(), LogoutUserInput{RefreshToken: "garbage"}))
}

func TestRefreshToken_KeepsRememberMe(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.register(t, "ana@example.com", "Ana", "navidad2030")
	require.NoError(t, err)

	login, err := NewLoginUserUseCase(f.store.Users, f.passwords, f.tokens).Execute(context.Background(), LoginUserInput{
		Email:      "ana@example.com",
		Password:   "navidad2030",
		RememberMe: true,
	})
	require.NoError(t, err)
	assert.True(t, login.Session.AccessExpiresAt.After(time.Now().Add(2*time.Minute)))

	rotated, err := NewRefreshTokenUseCase(f.tokens).Execute(context.Background(), RefreshTokenInput{RefreshToken: login.Session.RefreshToken})
	require.NoError(t, err)
	assert.True(t, rotated.Session.AccessExpiresAt.After(time.Now().Add(2*time.Minute)))
}

func TestRefreshToken_Empty(t *testing.T) {
	f := newAuthFixture(t)

	_, err := NewRefreshTokenUseCase(f.tokens).Execute(context.Background(), RefreshTokenInput{})
	assert.True(t, domainerror.IsKind(err, domainerror.KindValidation))
}

func TestRefreshToken_Expired(t *testing.T) {
	s := testutil.NewStore(t)
	clock := &testutil.Clock{T: time.Now().UTC().Add(-2 * time.Hour)}
	tokens := adapters.NewTokenService("test-secret", adapters.TokenDurations{
		Access:  time.Minute,
		Refresh: time.Hour,
	}, persistence.NewSessionRepository(s.DB), adapters.WithTokenClock(clock))
	user := s.User(t, "Ana")

	session, err := tokens.IssueSession(context.Background(), user.ID, user.Email, false)
	require.NoError(t, err)
	_, err = tokens.VerifyAccessToken(context.Background(), session.AccessToken)
	require.NoError(t, err)

	clock.T = time.Now().UTC()

	_, err = tokens.VerifyAccessToken(context.Background(), session.AccessToken)
	assert.ErrorIs(t, err, domainerror.ErrExpiredToken)

	_, err = NewRefreshTokenUseCase(tokens).Execute(context.Background(), RefreshTokenInput{RefreshToken: session.RefreshToken})
	var authErr *domainerror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domainerror.ErrCodeExpiredToken, authErr.Code)
}

func TestGetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	registered, err := f.register(t, "ana@example.com", "Ana", "navidad2030")
	require.NoError(t, err)
	uc := NewGetCurrentUserUseCase(f.store.Users)

	user, err := uc.Execute(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	_, err = uc.Execute(context.Background(), uuid.New())
	assert.True(t, domainerror.IsKind(err, domainerror.KindNotFound))
}
