package panelapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListFormFields fetches the active field definitions for one project.
func (c *Client) ListFormFields(ctx context.Context, token string, warehouseID int64) ([]FormField, error) {
	v := url.Values{}
	v.Set("status", "1")
	if warehouseID > 0 {
		v.Set("warehouse_id", strconv.FormatInt(warehouseID, 10))
	}
	var fields []FormField
	if err := c.do(ctx, token, http.MethodGet, "/form-fields", v, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Client) CreateFormField(ctx context.Context, token string, in FormField) error {
	return c.do(ctx, token, http.MethodPost, "/form-fields", nil, in, nil)
}

func (c *Client) UpdateFormField(ctx context.Context, token string, id int64, in FormField) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/form-fields/%d", id), nil, in, nil)
}

func (c *Client) DeleteFormField(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/form-fields/%d", id), nil, nil, nil)
}
