package models

import "time"

// Invoice is a billing record attached to an order. The file itself lives in
// external storage; only its URL is kept here.
type Invoice struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID         int64     `gorm:"column:order_id;not null;index"`
	FileURL         string    `gorm:"column:file_url;not null"`
	CreatedByUserID int64     `gorm:"column:created_by_user_id;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
