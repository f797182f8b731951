package api

import (
	"context"
	"net/http"

	"github.com/nao1215/adoperator/internal/model"
)

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out model.AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: body, anonymous: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out model.AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: body, anonymous: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
