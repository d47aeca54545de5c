package invoices

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// Actor identifies the authenticated caller for authorization decisions.
type Actor struct {
	UserID  int64
	OrgID   int64
	OrgType enums.OrgType
	Role    enums.MemberRole
}

// CreateInput attaches a billing record to an order.
type CreateInput struct {
	OrderID int64
	FileURL string
}

// ListInput pages org-scoped invoices.
type ListInput struct {
	Limit  int
	Offset int
}

// InvoiceView is the read shape for an invoice.
type InvoiceView struct {
	ID              int64     `json:"id"`
	OrderID         int64     `json:"order_id"`
	FileURL         string    `json:"file_url"`
	CreatedByUserID int64     `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewInvoiceView maps a model row.
func NewInvoiceView(invoice *models.Invoice) InvoiceView {
	return InvoiceView{
		ID:              invoice.ID,
		OrderID:         invoice.OrderID,
		FileURL:         invoice.FileURL,
		CreatedByUserID: invoice.CreatedByUserID,
		CreatedAt:       invoice.CreatedAt,
	}
}
