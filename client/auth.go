package client

import (
	"context"
	"net/http"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
)

// AuthResult is what login and register return.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AuthAPI struct {
	c *Client
}

func (a *AuthAPI) Login(ctx context.Context, form models.LoginForm) (*AuthResult, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	var result AuthResult
	if err := a.c.do(ctx, http.MethodPost, "/auth/login", nil, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AuthAPI) Register(ctx context.Context, form models.RegisterForm) (*AuthResult, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	var result AuthResult
	if err := a.c.do(ctx, http.MethodPost, "/auth/register", nil, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes the current token on the server.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
