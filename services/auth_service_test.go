package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDB(t), utils.NewJWTManager("test-secret", time.Hour), nil)
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, models.RegisterForm{
		Name:     "Budi",
		Email:    "Budi@Example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "budi@example.com", registered.User.Email)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	assert.NotEqual(t, "rahasia123", registered.User.Password)

	loggedIn, err := svc.Login(ctx, models.LoginForm{Email: "budi@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	user, err := svc.Authenticate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	form := models.RegisterForm{Name: "Citra", Email: "citra@example.com", Password: "password1"}
	_, err := svc.Register(ctx, form)
	require.NoError(t, err)

	form.Email = "CITRA@example.com"
	_, err = svc.Register(ctx, form)
	assert.ErrorIs(t, err, apperrors.ErrEmailInUse)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), models.RegisterForm{Name: "", Email: "x", Password: "short"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterForm{Name: "Dewi", Email: "dewi@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginForm{Email: "dewi@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Login(ctx, models.LoginForm{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, models.RegisterForm{Name: "Eko", Email: "eko@example.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(result.Token))
	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthenticateRejectsGarbageAndDeletedUsers(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	result, err := svc.Register(ctx, models.RegisterForm{Name: "Fajar", Email: "fajar@example.com", Password: "password1"})
	require.NoError(t, err)
	require.NoError(t, NewUserService(svc.DB).Delete(ctx, result.User.ID))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
