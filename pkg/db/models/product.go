package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a vendor catalog listing. BasePrice is the resolver's floor value;
// changing it never rewrites prices already captured on order items.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	VendorOrgID int64           `gorm:"column:vendor_org_id;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	UnitID      int64           `gorm:"column:unit_id;not null"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Unit        *Unit           `gorm:"foreignKey:UnitID"`
	ZoneRules   []ZoneRule      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	TierRules   []TierRule      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
