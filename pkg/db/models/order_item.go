package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// OrderItem captures a priced line on an order. CalculatedUnitPrice is the
// resolver output frozen at creation; FinalUnitPrice diverges from it only
// after a manual override. Rows are never deleted.
type OrderItem struct {
	ID                  int64               `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID             int64               `gorm:"column:order_id;not null;index"`
	ProductID           int64               `gorm:"column:product_id;not null;index"`
	Name                string              `gorm:"column:name;not null"`
	Quantity            int                 `gorm:"column:quantity;not null"`
	ZoneCode            *string             `gorm:"column:zone_code"`
	CalculatedUnitPrice decimal.Decimal     `gorm:"column:calculated_unit_price;type:numeric(12,2);not null"`
	FinalUnitPrice      decimal.Decimal     `gorm:"column:final_unit_price;type:numeric(12,2);not null"`
	PricingSource       enums.PricingSource `gorm:"column:pricing_source;not null"`
	Status              enums.ItemStatus    `gorm:"column:status;not null;default:'Pending'"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
