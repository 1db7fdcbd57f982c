package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/client"
	"github.com/yeremiapane/tablemate/models"
)

type fakeAuth struct {
	users     map[string]models.User
	logouts   int
	logoutErr error
}

func (f *fakeAuth) Login(_ context.Context, form models.LoginForm) (*client.AuthResult, error) {
	u, ok := f.users[form.Email]
	if !ok || form.Password != "secret-pass" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &client.AuthResult{Token: "token-" + u.ID, User: u}, nil
}

func (f *fakeAuth) Register(_ context.Context, form models.RegisterForm) (*client.AuthResult, error) {
	if _, ok := f.users[form.Email]; ok {
		return nil, apperrors.ErrEmailInUse
	}
	u := models.User{Name: form.Name, Email: form.Email, Role: models.RoleUser}
	u.ID = "u-new"
	f.users[form.Email] = u
	return &client.AuthResult{Token: "token-new", User: u}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func newFakeAuth() *fakeAuth {
	admin := models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	admin.ID = "u-admin"
	return &fakeAuth{users: map[string]models.User{admin.Email: admin}}
}

func tempStore(t *testing.T) *FileStore {
	return NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
}

func TestLoginPersistsAndRestores(t *testing.T) {
	store := tempStore(t)
	auth := newFakeAuth()

	h := NewHolder(store, auth)
	h.Init()
	_, ok := h.Current()
	assert.False(t, ok)

	id, err := h.Login(context.Background(), models.LoginForm{Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, "token-u-admin", h.Token())

	info, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restarted := NewHolder(store, auth)
	restarted.Init()
	got, ok := restarted.Current()
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, "token-u-admin", restarted.Token())
}

func TestLoginFailureKeepsNoIdentity(t *testing.T) {
	h := NewHolder(tempStore(t), newFakeAuth())
	h.Init()

	_, err := h.Login(context.Background(), models.LoginForm{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, ok := h.Current()
	assert.False(t, ok)
}

func TestRegisterReturnsUserIdentity(t *testing.T) {
	h := NewHolder(tempStore(t), newFakeAuth())

	id, err := h.Register(context.Background(), models.RegisterForm{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.False(t, id.IsAdmin())

	_, err = h.Register(context.Background(), models.RegisterForm{Name: "Budi", Email: "budi@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailInUse)

	// the first registration stays in place
	current, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, "u-new", current.ID)
}

func TestLogoutClearsMemoryAndStore(t *testing.T) {
	store := tempStore(t)
	auth := newFakeAuth()
	auth.logoutErr = apperrors.ErrNetwork

	h := NewHolder(store, auth)
	_, err := h.Login(context.Background(), models.LoginForm{Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	require.NoError(t, h.Logout(context.Background()))
	assert.Equal(t, 1, auth.logouts)
	_, ok := h.Current()
	assert.False(t, ok)
	assert.Empty(t, h.Token())

	_, err = os.Stat(store.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// logging out twice skips the server
	require.NoError(t, h.Logout(context.Background()))
	assert.Equal(t, 1, auth.logouts)
}

func TestCorruptStoreMeansNoIdentity(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path), 0o700))

	for _, content := range []string{"{not json", `{"token":"","identity":{}}`, ""} {
		require.NoError(t, os.WriteFile(store.Path, []byte(content), 0o600))
		h := NewHolder(store, newFakeAuth())
		h.Init()
		_, ok := h.Current()
		assert.False(t, ok, content)
		assert.Empty(t, h.Token())
	}
}

func TestCloseWritesCurrentState(t *testing.T) {
	store := tempStore(t)
	h := NewHolder(store, newFakeAuth())
	_, err := h.Login(context.Background(), models.LoginForm{Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	require.NoError(t, store.Clear())

	require.NoError(t, h.Close())
	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "u-admin", st.Identity.ID)

	h.Expire()
	require.NoError(t, h.Close())
	_, err = store.Load()
	assert.Error(t, err)
}

func TestConnectExpiresOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"token":"abc","user":{"id":"u1","name":"Ana","email":"ana@example.com","role":"user"}}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":false,"message":"token expired","code":"unauthorized"}`))
		}
	}))
	defer srv.Close()

	store := tempStore(t)
	h, c := Connect(srv.URL, store)
	h.Init()

	id, err := h.Login(context.Background(), models.LoginForm{Email: "ana@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, "abc", h.Token())

	_, err = c.Reservations.Mine(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, ok := h.Current()
	assert.False(t, ok)
	_, err = os.Stat(store.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
