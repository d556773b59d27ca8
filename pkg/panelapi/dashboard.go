package panelapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// DashboardSummary fetches the landing-page totals scoped by project.
func (c *Client) DashboardSummary(ctx context.Context, token string, warehouseID int64) (Summary, error) {
	v := url.Values{}
	if warehouseID > 0 {
		v.Set("warehouse_id", strconv.FormatInt(warehouseID, 10))
	}
	var resp struct {
		Data Summary `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/dashboard", v, nil, &resp); err != nil {
		return Summary{}, err
	}
	return resp.Data, nil
}
