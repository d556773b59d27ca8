package panelapi

import "panelkeu/pkg/formfield"

// Page mirrors the backend's paging metadata. It is display state only:
// bounds are enforced by disabling the prev/next controls, not re-validated
// here.
type Page struct {
	CurrentPage  int
	TotalPages   int
	ItemsPerPage int
}

// HasPrev reports whether the "previous" control should be enabled.
func (p Page) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether the "next" control should be enabled.
func (p Page) HasNext() bool { return p.CurrentPage < p.TotalPages }

// pageMeta is the wire shape of Laravel-style paginator metadata.
type pageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
}

func (m pageMeta) page() Page {
	return Page{CurrentPage: m.CurrentPage, TotalPages: m.LastPage, ItemsPerPage: m.PerPage}
}

// Warehouse is a project/client tenant. Status is 1 for active, 0 inactive.
type Warehouse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Status    int    `json:"status"`
	CreatedAt string `json:"created_at"`
}

type WarehouseInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Status   int    `json:"status"`
	Password string `json:"password,omitempty"`
}

// User roles: 1 admin, 2 staff, 3 superadmin.
const (
	RoleAdmin      = 1
	RoleStaff      = 2
	RoleSuperadmin = 3
)

type User struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        int     `json:"role"`
	Status      int     `json:"status"`
	LastLoginAt string  `json:"last_login_at"`
	CreatedAt   string  `json:"created_at"`
	ClientIDs   []int64 `json:"client_ids"`
}

type UserInput struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password,omitempty"`
	Role      int     `json:"role"`
	Status    int     `json:"status"`
	ClientIDs []int64 `json:"client_ids"`
}

// Transaction amounts are signed whole rupiah: negative is pengeluaran,
// positive pemasukan. InvoiceFile, when present, is a data-URL base64 blob.
type Transaction struct {
	UUID           string            `json:"uuid"`
	Date           string            `json:"transaction_at"`
	Description    string            `json:"description"`
	Amount         int64             `json:"amount"`
	Category       string            `json:"category"`
	Status         string            `json:"status"`
	PaymentMethod  string            `json:"payment_method"`
	Notes          string            `json:"notes"`
	InvoiceFile    string            `json:"invoice_file,omitempty"`
	AdditionalData []formfield.Datum `json:"additional_data"`
	WarehouseName  string            `json:"warehouse_name,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

type TransactionInput struct {
	Date           string            `json:"transaction_at"`
	Description    string            `json:"description"`
	Amount         int64             `json:"amount"`
	Category       string            `json:"category"`
	Status         string            `json:"status"`
	PaymentMethod  string            `json:"payment_method"`
	Notes          string            `json:"notes"`
	InvoiceFile    string            `json:"invoice_file,omitempty"`
	AdditionalData []formfield.Datum `json:"additional_data"`
	WarehouseID    int64             `json:"warehouse_id"`
}

// FormField is the wire shape of one dynamic field definition.
type FormField struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
	WarehouseID int64    `json:"warehouse_id"`
}

// Summary is the dashboard endpoint payload for one project.
type Summary struct {
	TotalIncome       int64         `json:"total_income"`
	TotalExpense      int64         `json:"total_expense"`
	Balance           int64         `json:"balance"`
	TotalTransactions int           `json:"total_transactions"`
	Recent            []Transaction `json:"recent_transactions"`
}

// SessionUser is the identity block returned by login.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  int    `json:"role"`
}
