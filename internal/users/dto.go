package users

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// UserView is the read shape for a user, without credential material.
type UserView struct {
	ID             int64            `json:"id"`
	Email          string           `json:"email"`
	FullName       string           `json:"full_name"`
	Role           enums.MemberRole `json:"role"`
	OrganizationID int64            `json:"organization_id"`
	OrgType        enums.OrgType    `json:"org_type,omitempty"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
}

// FromModel maps a model row, pulling the org type when the association is loaded.
func FromModel(user *models.User) UserView {
	view := UserView{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
	}
	if user.Organization != nil {
		view.OrgType = user.Organization.OrgType
	}
	return view
}
