package orders

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/pagination"
)

// Actor identifies the authenticated caller for authorization decisions.
type Actor struct {
	UserID  int64
	OrgID   int64
	OrgType enums.OrgType
	Role    enums.MemberRole
}

// CreateInput opens a new order for the actor's company.
type CreateInput struct {
	Reference *string
}

// UpdateStatusInput moves an order to a terminal or reopened state.
type UpdateStatusInput struct {
	OrderID int64
	Status  enums.OrderStatus
}

// ListInput pages through a company's orders, newest first.
type ListInput struct {
	Pagination pagination.Params
}

// OrderView is the read shape for an order.
type OrderView struct {
	ID             int64             `json:"id"`
	CompanyOrgID   int64             `json:"company_org_id"`
	PlacedByUserID int64             `json:"placed_by_user_id"`
	Reference      *string           `json:"reference,omitempty"`
	Status         enums.OrderStatus `json:"status"`
	PlacedAt       time.Time         `json:"placed_at"`
	CreatedAt      time.Time         `json:"created_at"`
}

// OrderPage is one page of orders plus the cursor for the next page.
type OrderPage struct {
	Orders     []OrderView `json:"orders"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// NewOrderView maps a model row.
func NewOrderView(order *models.Order) OrderView {
	return OrderView{
		ID:             order.ID,
		CompanyOrgID:   order.CompanyOrgID,
		PlacedByUserID: order.PlacedByUserID,
		Reference:      order.Reference,
		Status:         order.Status,
		PlacedAt:       order.PlacedAt,
		CreatedAt:      order.CreatedAt,
	}
}
