package client

import (
	"context"
	"net/http"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/validation"
)

type Customers struct {
	c *Client
}

// List accepts Param("status", ...) and Param("q", ...).
func (cs *Customers) List(ctx context.Context, filters ...Filter) ([]models.Customer, error) {
	var customers []models.Customer
	err := cs.c.do(ctx, http.MethodGet, "/customers", query(filters), nil, &customers)
	return customers, err
}

func (cs *Customers) Get(ctx context.Context, id string) (*models.Customer, error) {
	path, err := resourcePath("/customers", id)
	if err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := cs.c.do(ctx, http.MethodGet, path, nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (cs *Customers) Create(ctx context.Context, form models.CustomerForm) (*models.Customer, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := cs.c.do(ctx, http.MethodPost, "/customers", nil, form, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (cs *Customers) Update(ctx context.Context, id string, upd models.CustomerUpdate) (*models.Customer, error) {
	path, err := resourcePath("/customers", id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := cs.c.do(ctx, http.MethodPut, path, nil, upd, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (cs *Customers) Delete(ctx context.Context, id string) error {
	path, err := resourcePath("/customers", id)
	if err != nil {
		return err
	}
	return cs.c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
