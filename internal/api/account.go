package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := sendJSON[LoginResponse](ctx, c, http.MethodPost, "/api/login", req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	resp, err := sendJSON[MessageResponse](ctx, c, http.MethodPost, "/api/register", req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &resp, nil
}

// Logout ends the server-side session. The response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.Post(ctx, "/api/logout", nil)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// CheckAuth asks the backend whether the current token is still valid.
func (c *Client) CheckAuth(ctx context.Context) (*AuthStatus, error) {
	status, err := getJSON[AuthStatus](ctx, c, "/api/check-auth", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check authentication: %w", err)
	}
	return &status, nil
}

// Profile retrieves the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	user, err := getJSON[User](ctx, c, "/api/user/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile saves profile changes, optionally including a password change.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*MessageResponse, error) {
	resp, err := sendJSON[MessageResponse](ctx, c, http.MethodPut, "/api/user/profile", update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &resp, nil
}

// Settings retrieves the signed-in user's settings.
func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	settings, err := getJSON[Settings](ctx, c, "/api/user/settings", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings saves the full settings document.
func (c *Client) UpdateSettings(ctx context.Context, settings Settings) (*MessageResponse, error) {
	resp, err := sendJSON[MessageResponse](ctx, c, http.MethodPut, "/api/user/settings", settings)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &resp, nil
}

// Contact submits a message through the contact form.
func (c *Client) Contact(ctx context.Context, msg ContactMessage) (*MessageResponse, error) {
	resp, err := sendJSON[MessageResponse](ctx, c, http.MethodPost, "/api/contact", msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &resp, nil
}
