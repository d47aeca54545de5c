package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// OrderItemHistory is the append-only audit trail of an order item. One row per
// status transition and one per price override; insertion order is preserved
// by (created_at, id).
type OrderItemHistory struct {
	ID          int64            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderItemID int64            `gorm:"column:order_item_id;not null;index"`
	Status      enums.ItemStatus `gorm:"column:status;not null"`
	OldPrice    *decimal.Decimal `gorm:"column:old_price;type:numeric(12,2)"`
	NewPrice    *decimal.Decimal `gorm:"column:new_price;type:numeric(12,2)"`
	Reason      *string          `gorm:"column:reason"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}
