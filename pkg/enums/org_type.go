package enums

import "fmt"

// OrgType distinguishes the three organization kinds on the platform.
type OrgType string

const (
	OrgTypeAppOwner OrgType = "app_owner"
	OrgTypeVendor   OrgType = "vendor"
	OrgTypeCompany  OrgType = "company"
)

var validOrgTypes = []OrgType{
	OrgTypeAppOwner,
	OrgTypeVendor,
	OrgTypeCompany,
}

// String implements fmt.Stringer.
func (o OrgType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrgType.
func (o OrgType) IsValid() bool {
	for _, candidate := range validOrgTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrgType converts raw input into an OrgType.
func ParseOrgType(value string) (OrgType, error) {
	for _, candidate := range validOrgTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid org type %q", value)
}
