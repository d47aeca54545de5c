package products

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

// CreateInput carries the writable fields of a new product.
type CreateInput struct {
	Name        string
	Description *string
	BasePrice   decimal.Decimal
	UnitID      int64
}

// UpdateInput carries a partial product update. Nil fields are left unchanged.
type UpdateInput struct {
	ProductID   int64
	Name        *string
	Description *string
	BasePrice   *decimal.Decimal
	UnitID      *int64
	IsActive    *bool
}

// ListInput pages the catalog listing.
type ListInput struct {
	Limit  int
	Offset int
}

// ProductView is the read shape for a catalog listing.
type ProductView struct {
	ID          int64           `json:"id"`
	VendorOrgID int64           `json:"vendor_org_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	UnitID      int64           `json:"unit_id"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UnitView is the read shape for a unit of measure.
type UnitView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// NewProductView maps a model row.
func NewProductView(product *models.Product) ProductView {
	return ProductView{
		ID:          product.ID,
		VendorOrgID: product.VendorOrgID,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		UnitID:      product.UnitID,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewUnitView maps a model row.
func NewUnitView(unit *models.Unit) UnitView {
	return UnitView{ID: unit.ID, Name: unit.Name, Abbreviation: unit.Abbreviation}
}
