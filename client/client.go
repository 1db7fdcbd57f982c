// Package client talks to the TableMate REST API. Every call is bound to the caller's context;
// nothing is cached or retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yeremiapane/tablemate/apperrors"
)

// TokenSource supplies the bearer token and is told when the server rejects it.
// session.Holder implements it.
type TokenSource interface {
	Token() string
	Expire()
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	Auth         *AuthAPI
	Users        *Users
	Customers    *Customers
	Menu         *Menu
	Reservations *Reservations
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthAPI{c: c}
	c.Users = &Users{c: c}
	c.Customers = &Customers{c: c}
	c.Menu = &Menu{c: c}
	c.Reservations = &Reservations{c: c}
	return c
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// Filter adds a query parameter to a List call.
type Filter func(url.Values)

func Param(key, value string) Filter {
	return func(q url.Values) { q.Set(key, value) }
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return apperrors.FromResponse(resp.StatusCode, "", resp.Status, nil)
		}
		return fmt.Errorf("%w: decode %s %s: %v", apperrors.ErrNetwork, method, path, err)
	}

	if resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.tokens.Expire()
		}
		return apperrors.FromResponse(resp.StatusCode, env.Code, env.Message, fieldsOf(env))
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func fieldsOf(env envelope) map[string]string {
	if env.Code != apperrors.CodeValidation || len(env.Data) == 0 {
		return nil
	}
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil
	}
	return data.Fields
}

func query(filters []Filter) url.Values {
	q := url.Values{}
	for _, f := range filters {
		f(q)
	}
	return q
}

func resourcePath(base, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", apperrors.NewValidationError("id", "is required")
	}
	return base + "/" + url.PathEscape(id), nil
}

// IsNetwork reports whether err is a transport failure rather than an API answer.
func IsNetwork(err error) bool {
	return errors.Is(err, apperrors.ErrNetwork)
}
