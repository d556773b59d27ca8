package panelapi

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token. Invalid credentials come
// back from the backend as 422 or 401; both surface through the normal error
// taxonomy.
func (c *Client) Login(ctx context.Context, email, password string) (string, SessionUser, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Token string      `json:"token"`
			User  SessionUser `json:"user"`
		} `json:"data"`
	}
	if err := c.do(ctx, "", http.MethodPost, "/login", nil, body, &resp); err != nil {
		return "", SessionUser{}, err
	}
	if resp.Status != "success" || resp.Data.Token == "" {
		return "", SessionUser{}, fmt.Errorf("login rejected by backend")
	}
	return resp.Data.Token, resp.Data.User, nil
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, token, current, updated string) error {
	body := map[string]string{"current_password": current, "new_password": updated}
	return c.do(ctx, token, http.MethodPost, "/change-password", nil, body, nil)
}
