package client

import (
	"context"
	"net/http"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
)

type Users struct {
	c *Client
}

func (u *Users) List(ctx context.Context, filters ...Filter) ([]models.User, error) {
	var users []models.User
	err := u.c.do(ctx, http.MethodGet, "/users", query(filters), nil, &users)
	return users, err
}

func (u *Users) Get(ctx context.Context, id string) (*models.User, error) {
	path, err := resourcePath("/users", id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := u.c.do(ctx, http.MethodGet, path, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) Create(ctx context.Context, form models.UserForm) (*models.User, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	var user models.User
	if err := u.c.do(ctx, http.MethodPost, "/users", nil, form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	path, err := resourcePath("/users", id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	var user models.User
	if err := u.c.do(ctx, http.MethodPut, path, nil, upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) Delete(ctx context.Context, id string) error {
	path, err := resourcePath("/users", id)
	if err != nil {
		return err
	}
	return u.c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
