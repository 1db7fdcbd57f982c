package client

import (
	"context"
	"net/http"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
)

type Menu struct {
	c *Client
}

func Category(category models.MenuCategory) Filter {
	return Param("category", string(category))
}

func AvailableOnly() Filter {
	return Param("available", "true")
}

func (m *Menu) List(ctx context.Context, filters ...Filter) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := m.c.do(ctx, http.MethodGet, "/menu", query(filters), nil, &items)
	return items, err
}

func (m *Menu) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	path, err := resourcePath("/menu", id)
	if err != nil {
		return nil, err
	}
	var item models.MenuItem
	if err := m.c.do(ctx, http.MethodGet, path, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *Menu) Create(ctx context.Context, form models.MenuItemForm) (*models.MenuItem, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	var item models.MenuItem
	if err := m.c.do(ctx, http.MethodPost, "/menu", nil, form, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *Menu) Update(ctx context.Context, id string, upd models.MenuItemUpdate) (*models.MenuItem, error) {
	path, err := resourcePath("/menu", id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	var item models.MenuItem
	if err := m.c.do(ctx, http.MethodPut, path, nil, upd, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *Menu) Delete(ctx context.Context, id string) error {
	path, err := resourcePath("/menu", id)
	if err != nil {
		return err
	}
	return m.c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
