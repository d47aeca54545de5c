package models

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// OrderDocument is a supporting file attached to an order, tagged with the
// kind of paperwork it carries.
type OrderDocument struct {
	ID               int64              `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID          int64              `gorm:"column:order_id;not null;index"`
	Kind             enums.DocumentKind `gorm:"column:kind;not null"`
	FileURL          string             `gorm:"column:file_url;not null"`
	UploadedByUserID int64              `gorm:"column:uploaded_by_user_id;not null"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
}
