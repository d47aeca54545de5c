package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// Actor identifies the authenticated caller for authorization decisions.
type Actor struct {
	UserID  int64
	OrgID   int64
	OrgType enums.OrgType
	Role    enums.MemberRole
}

// ResolveInput carries the tuple a price is resolved for.
type ResolveInput struct {
	ProductID int64
	Quantity  int
	ZoneCode  *string
}

// PriceQuote is the resolver output. It is never persisted on its own; order
// items freeze the UnitPrice and PricingSource at creation time.
type PriceQuote struct {
	BasePrice     decimal.Decimal     `json:"base_price"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	ZoneApplied   bool                `json:"zone_applied"`
	ZoneCode      *string             `json:"zone_code,omitempty"`
	ZoneAmount    *decimal.Decimal    `json:"zone_amount,omitempty"`
	ZoneIsPercent bool                `json:"zone_is_percent"`
	TierApplied   bool                `json:"tier_applied"`
	TierMinQty    *int                `json:"tier_min_qty,omitempty"`
	TierAmount    *decimal.Decimal    `json:"tier_amount,omitempty"`
	TierIsPercent bool                `json:"tier_is_percent"`
	PricingSource enums.PricingSource `json:"pricing_source"`
}

// ZoneRuleInput captures the writable fields of a zone rule.
type ZoneRuleInput struct {
	ZoneCode string
	Kind     enums.AdjustmentKind
	Amount   decimal.Decimal
	Active   bool
}

// TierRuleInput captures the writable fields of a tier rule.
type TierRuleInput struct {
	MinQty int
	Kind   enums.AdjustmentKind
	Amount decimal.Decimal
	Active bool
}
