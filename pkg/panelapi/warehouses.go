package panelapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListQuery covers the shared search+page filters of the list endpoints.
type ListQuery struct {
	Search  string
	Page    int
	PerPage int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

type warehousePage struct {
	pageMeta
	Data []Warehouse `json:"data"`
}

// ListWarehouses fetches one page of projects.
func (c *Client) ListWarehouses(ctx context.Context, token string, q ListQuery) ([]Warehouse, Page, error) {
	var resp struct {
		Data warehousePage `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/warehouses", q.values(), nil, &resp); err != nil {
		return nil, Page{}, err
	}
	return resp.Data.Data, resp.Data.page(), nil
}

// AllWarehouses fetches the full unpaginated project list, used for the
// active-project selector and the user form's project multi-select.
func (c *Client) AllWarehouses(ctx context.Context, token string) ([]Warehouse, error) {
	v := url.Values{}
	v.Set("pagination", "false")
	var resp struct {
		Data struct {
			Data []Warehouse `json:"data"`
		} `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/warehouses", v, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Data, nil
}

func (c *Client) CreateWarehouse(ctx context.Context, token string, in WarehouseInput) error {
	return c.do(ctx, token, http.MethodPost, "/warehouses", nil, in, nil)
}

func (c *Client) UpdateWarehouse(ctx context.Context, token string, id int64, in WarehouseInput) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/warehouses/%d", id), nil, in, nil)
}

func (c *Client) DeleteWarehouse(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/warehouses/%d", id), nil, nil, nil)
}
