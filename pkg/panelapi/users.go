package panelapi

import (
	"context"
	"fmt"
	"net/http"
)

type userPage struct {
	pageMeta
	Data []User `json:"data"`
}

func (c *Client) ListUsers(ctx context.Context, token string, q ListQuery) ([]User, Page, error) {
	var resp struct {
		Data userPage `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/users", q.values(), nil, &resp); err != nil {
		return nil, Page{}, err
	}
	return resp.Data.Data, resp.Data.page(), nil
}

func (c *Client) CreateUser(ctx context.Context, token string, in UserInput) error {
	return c.do(ctx, token, http.MethodPost, "/users", nil, in, nil)
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in UserInput) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}
