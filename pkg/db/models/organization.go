package models

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// Organization is a tenant on the platform: the app owner, a vendor, or a company.
type Organization struct {
	ID        int64         `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string        `gorm:"column:name;not null"`
	OrgType   enums.OrgType `gorm:"column:org_type;not null"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
}
