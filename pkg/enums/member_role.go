package enums

import "fmt"

// MemberRole is the role a user holds inside their organization.
type MemberRole string

const (
	MemberRoleSuperAdmin MemberRole = "super_admin"
	MemberRoleAdmin      MemberRole = "admin"
	MemberRoleUser       MemberRole = "user"
)

var validMemberRoles = []MemberRole{
	MemberRoleSuperAdmin,
	MemberRoleAdmin,
	MemberRoleUser,
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsAdministrative reports whether the role may manage pricing and overrides.
func (m MemberRole) IsAdministrative() bool {
	return m == MemberRoleSuperAdmin || m == MemberRoleAdmin
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
