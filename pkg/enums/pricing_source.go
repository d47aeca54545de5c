package enums

// PricingSource records which rule combination produced a resolved unit price.
type PricingSource string

const (
	PricingSourceBase     PricingSource = "base"
	PricingSourceZone     PricingSource = "zone"
	PricingSourceTier     PricingSource = "tier"
	PricingSourceZoneTier PricingSource = "zone+tier"
)

// String implements fmt.Stringer.
func (p PricingSource) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingSource.
func (p PricingSource) IsValid() bool {
	switch p {
	case PricingSourceBase, PricingSourceZone, PricingSourceTier, PricingSourceZoneTier:
		return true
	}
	return false
}

// CombinePricingSource derives the provenance tag from the applied rules.
func CombinePricingSource(zoneApplied, tierApplied bool) PricingSource {
	switch {
	case zoneApplied && tierApplied:
		return PricingSourceZoneTier
	case zoneApplied:
		return PricingSourceZone
	case tierApplied:
		return PricingSourceTier
	default:
		return PricingSourceBase
	}
}
