// Package session holds who is logged in on the client side. A Holder is created once at
// start-up, restored with Init, handed to the guards and the API client, and closed on exit.
package session

import (
	"context"
	"sync"

	"github.com/yeremiapane/tablemate/client"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
)

type Identity struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role.IsAdmin() }

func identityOf(u models.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// AuthAPI is the part of the API client the holder needs.
type AuthAPI interface {
	Login(ctx context.Context, form models.LoginForm) (*client.AuthResult, error)
	Register(ctx context.Context, form models.RegisterForm) (*client.AuthResult, error)
	Logout(ctx context.Context) error
}

type Holder struct {
	mu    sync.RWMutex
	state *State
	store Store
	auth  AuthAPI
}

func NewHolder(store Store, auth AuthAPI) *Holder {
	return &Holder{store: store, auth: auth}
}

// Connect builds a holder and an API client that sends the holder's token and
// expires the holder on 401.
func Connect(baseURL string, store Store, opts ...client.Option) (*Holder, *client.Client) {
	h := &Holder{store: store}
	c := client.New(baseURL, append(opts, client.WithTokenSource(h))...)
	h.auth = c.Auth
	return h, c
}

// Init restores the last saved identity. An unreadable store means nobody is logged in.
func (h *Holder) Init() {
	st, err := h.store.Load()

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		utils.InfoLogger.Debugf("no saved session: %v", err)
		h.state = nil
		return
	}
	h.state = st
}

func (h *Holder) Login(ctx context.Context, form models.LoginForm) (Identity, error) {
	res, err := h.auth.Login(ctx, form)
	if err != nil {
		return Identity{}, err
	}
	return h.remember(res), nil
}

func (h *Holder) Register(ctx context.Context, form models.RegisterForm) (Identity, error) {
	res, err := h.auth.Register(ctx, form)
	if err != nil {
		return Identity{}, err
	}
	return h.remember(res), nil
}

// Logout forgets the identity locally even when the server cannot be reached.
func (h *Holder) Logout(ctx context.Context) error {
	if h.Token() != "" {
		if err := h.auth.Logout(ctx); err != nil {
			utils.InfoLogger.Debugf("server logout failed: %v", err)
		}
	}
	return h.clear()
}

func (h *Holder) Current() (Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == nil {
		return Identity{}, false
	}
	return h.state.Identity, true
}

func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == nil {
		return ""
	}
	return h.state.Token
}

// Expire drops a session the server no longer accepts.
func (h *Holder) Expire() {
	if err := h.clear(); err != nil {
		utils.ErrorLogger.Errorf("clear session: %v", err)
	}
}

// Close flushes the in-memory state to the store.
func (h *Holder) Close() error {
	h.mu.RLock()
	st := h.state
	h.mu.RUnlock()

	if st == nil {
		return h.store.Clear()
	}
	return h.store.Save(*st)
}

func (h *Holder) remember(res *client.AuthResult) Identity {
	st := State{Token: res.Token, Identity: identityOf(res.User)}

	h.mu.Lock()
	h.state = &st
	h.mu.Unlock()

	if err := h.store.Save(st); err != nil {
		utils.ErrorLogger.Errorf("save session: %v", err)
	}
	return st.Identity
}

func (h *Holder) clear() error {
	h.mu.Lock()
	h.state = nil
	h.mu.Unlock()
	return h.store.Clear()
}
