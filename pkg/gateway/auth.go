package gateway

import (
	"context"
	"net/http"

	"github.com/tably-ai/tably-cli/pkg/models"
)

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of the register endpoint.
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	OrganizationName string `json:"organizationName"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account and organization.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me validates the token and returns the current user and organization.
func (c *Client) Me(ctx context.Context, token string) (*models.MeResponse, error) {
	var out models.MeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
