package enums

import "fmt"

// AdjustmentKind says how a pricing rule amount is applied.
type AdjustmentKind string

const (
	AdjustmentKindAbsolute AdjustmentKind = "Absolute"
	AdjustmentKindPercent  AdjustmentKind = "Percent"
)

var validAdjustmentKinds = []AdjustmentKind{
	AdjustmentKindAbsolute,
	AdjustmentKindPercent,
}

// String implements fmt.Stringer.
func (a AdjustmentKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentKind.
func (a AdjustmentKind) IsValid() bool {
	for _, candidate := range validAdjustmentKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentKind converts raw input into an AdjustmentKind.
func ParseAdjustmentKind(value string) (AdjustmentKind, error) {
	for _, candidate := range validAdjustmentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment kind %q", value)
}
