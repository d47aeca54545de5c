package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// ZoneRule adjusts a product's price for orders tagged with a delivery zone.
// (product_id, zone_code) is unique; zone codes match case-sensitively.
type ZoneRule struct {
	ID        int64                `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64                `gorm:"column:product_id;not null;uniqueIndex:ux_zone_rules_product_zone"`
	ZoneCode  string               `gorm:"column:zone_code;not null;uniqueIndex:ux_zone_rules_product_zone"`
	Kind      enums.AdjustmentKind `gorm:"column:kind;not null"`
	Amount    decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Active    bool                 `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}
