package authsdk

import (
	"context"
	"net/http"
)

// Login authenticates and stores both token cookies in the jar.
func (c *Client) Login(ctx context.Context, username, password string) (*Result, error) {
	return c.call(ctx, "/api/auth/login", Credentials{Username: username, Password: password})
}

// Register creates an account holding the base role. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string) (*Result, error) {
	return c.call(ctx, "/api/auth/register", Credentials{Username: username, Password: password})
}

// Refresh swaps the stored refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) (*Result, error) {
	return c.call(ctx, "/api/auth/refresh", nil)
}

// Logout asks the server to clear both token cookies. The tokens themselves
// remain valid until they expire.
func (c *Client) Logout(ctx context.Context) (*Result, error) {
	return c.call(ctx, "/api/auth/logout", nil)
}

func (c *Client) call(ctx context.Context, path string, body any) (*Result, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var res Result
	if err := decodeJSON(resp, &res, http.StatusOK); err != nil {
		return nil, err
	}
	return &res, nil
}

// Do sends an arbitrary request with the stored cookies, for calling the
// gallery resources guarded by the session's tokens.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.doRequest(ctx, method, path, body)
}
