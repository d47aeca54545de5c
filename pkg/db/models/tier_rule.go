package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// TierRule adjusts a product's price once the ordered quantity reaches MinQty.
// When several tiers match, the highest MinQty wins.
type TierRule struct {
	ID        int64                `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64                `gorm:"column:product_id;not null;index"`
	MinQty    int                  `gorm:"column:min_qty;not null"`
	Kind      enums.AdjustmentKind `gorm:"column:kind;not null"`
	Amount    decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Active    bool                 `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}
