package panelapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// TransactionQuery scopes the transaction list. WarehouseID comes from the
// active project; Type is "pemasukan" or "pengeluaran" ("" for all).
type TransactionQuery struct {
	Search        string
	Type          string
	TransactionAt string
	WarehouseID   int64
	Page          int
	PerPage       int
}

func (q TransactionQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.TransactionAt != "" {
		v.Set("transaction_at", q.TransactionAt)
	}
	if q.WarehouseID > 0 {
		v.Set("warehouse_id", strconv.FormatInt(q.WarehouseID, 10))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

type transactionPage struct {
	pageMeta
	Data []Transaction `json:"data"`
}

func (c *Client) ListTransactions(ctx context.Context, token string, q TransactionQuery) ([]Transaction, Page, error) {
	var resp struct {
		Data transactionPage `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/transactions", q.values(), nil, &resp); err != nil {
		return nil, Page{}, err
	}
	return resp.Data.Data, resp.Data.page(), nil
}

func (c *Client) GetTransaction(ctx context.Context, token, uuid string) (Transaction, error) {
	var resp struct {
		Data Transaction `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/transactions/"+uuid, nil, nil, &resp); err != nil {
		return Transaction{}, err
	}
	return resp.Data, nil
}

func (c *Client) CreateTransaction(ctx context.Context, token string, in TransactionInput) error {
	return c.do(ctx, token, http.MethodPost, "/transactions", nil, in, nil)
}

func (c *Client) UpdateTransaction(ctx context.Context, token, uuid string, in TransactionInput) error {
	return c.do(ctx, token, http.MethodPut, "/transactions/"+uuid, nil, in, nil)
}

func (c *Client) DeleteTransaction(ctx context.Context, token, uuid string) error {
	return c.do(ctx, token, http.MethodDelete, "/transactions/"+uuid, nil, nil, nil)
}

// ExportQuery filters the PDF export endpoint.
type ExportQuery struct {
	StartDate string
	EndDate   string
	Type      string
}

// ExportTransactionsPDF returns the rendered PDF blob as-is.
func (c *Client) ExportTransactionsPDF(ctx context.Context, token string, q ExportQuery) ([]byte, error) {
	v := url.Values{}
	v.Set("start_date", q.StartDate)
	v.Set("end_date", q.EndDate)
	v.Set("type", q.Type)
	return c.doRaw(ctx, token, http.MethodGet, "/transactions-export-pdf", v, nil)
}
