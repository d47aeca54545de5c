package models

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// User is a member of an organization.
type User struct {
	ID             int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Email          string           `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash   string           `gorm:"column:password_hash;not null"`
	FullName       string           `gorm:"column:full_name;not null"`
	Role           enums.MemberRole `gorm:"column:role;not null"`
	OrganizationID int64            `gorm:"column:organization_id;not null"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	Organization   *Organization    `gorm:"foreignKey:OrganizationID"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}
