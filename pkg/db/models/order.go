package models

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// Order is the parent aggregate order items belong to, placed by a company.
type Order struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyOrgID   int64             `gorm:"column:company_org_id;not null;index"`
	PlacedByUserID int64             `gorm:"column:placed_by_user_id;not null"`
	Reference      *string           `gorm:"column:reference"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'Open'"`
	PlacedAt       time.Time         `gorm:"column:placed_at;autoCreateTime"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
