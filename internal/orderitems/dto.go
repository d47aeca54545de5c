package orderitems

import (
	"time"

	"github.com/shopspring/decimal"

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

// CreateInput carries a new line for an existing order. The unit price is
// resolved inside the creation transaction, never taken from the caller.
type CreateInput struct {
	OrderID   int64
	ProductID int64
	Name      *string
	Quantity  int
	ZoneCode  *string
}

// UpdateStatusInput moves an item to a new lifecycle status.
type UpdateStatusInput struct {
	ItemID int64
	Status enums.ItemStatus
}

// OverridePriceInput replaces an item's final unit price.
type OverridePriceInput struct {
	ItemID   int64
	NewPrice decimal.Decimal
	Reason   *string
}

// ListInput filters the item listing. OrderID of zero means no order filter;
// org scoping always applies on top.
type ListInput struct {
	OrderID int64
	Limit   int
	Offset  int
}

// ItemView is the read shape for an order item. Price fields are pointers so
// they can be withheld from vendor members without an administrative role.
type ItemView struct {
	ID                  int64               `json:"id"`
	OrderID             int64               `json:"order_id"`
	ProductID           int64               `json:"product_id"`
	Name                string              `json:"name"`
	Quantity            int                 `json:"quantity"`
	ZoneCode            *string             `json:"zone_code,omitempty"`
	CalculatedUnitPrice *decimal.Decimal    `json:"calculated_unit_price"`
	FinalUnitPrice      *decimal.Decimal    `json:"final_unit_price"`
	PricingSource       enums.PricingSource `json:"pricing_source"`
	Status              enums.ItemStatus    `json:"status"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// HistoryView is the read shape for one audit entry.
type HistoryView struct {
	ID          int64            `json:"id"`
	OrderItemID int64            `json:"order_item_id"`
	Status      enums.ItemStatus `json:"status"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice    *decimal.Decimal `json:"new_price,omitempty"`
	Reason      *string          `json:"reason,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// redactPrices reports whether the actor may not see price amounts.
func redactPrices(actor Actor) bool {
	return actor.OrgType == enums.OrgTypeVendor && !actor.Role.IsAdministrative()
}

// NewItemView maps a model row, withholding prices from vendor basic users.
func NewItemView(item *models.OrderItem, actor Actor) ItemView {
	view := ItemView{
		ID:            item.ID,
		OrderID:       item.OrderID,
		ProductID:     item.ProductID,
		Name:          item.Name,
		Quantity:      item.Quantity,
		ZoneCode:      item.ZoneCode,
		PricingSource: item.PricingSource,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if !redactPrices(actor) {
		calculated := item.CalculatedUnitPrice
		final := item.FinalUnitPrice
		view.CalculatedUnitPrice = &calculated
		view.FinalUnitPrice = &final
	}
	return view
}

// NewHistoryView maps an audit row, withholding prices from vendor basic users.
func NewHistoryView(entry *models.OrderItemHistory, actor Actor) HistoryView {
	view := HistoryView{
		ID:          entry.ID,
		OrderItemID: entry.OrderItemID,
		Status:      entry.Status,
		Reason:      entry.Reason,
		CreatedAt:   entry.CreatedAt,
	}
	if !redactPrices(actor) {
		view.OldPrice = entry.OldPrice
		view.NewPrice = entry.NewPrice
	}
	return view
}
