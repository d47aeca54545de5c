package enums

import "fmt"

// DocumentKind classifies files attached to an order.
type DocumentKind string

const (
	DocumentKindInvoice       DocumentKind = "invoice"
	DocumentKindPurchaseOrder DocumentKind = "purchase_order"
)

var validDocumentKinds = []DocumentKind{
	DocumentKindInvoice,
	DocumentKindPurchaseOrder,
}

// String implements fmt.Stringer.
func (d DocumentKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentKind.
func (d DocumentKind) IsValid() bool {
	for _, candidate := range validDocumentKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentKind converts raw input into a DocumentKind.
func ParseDocumentKind(value string) (DocumentKind, error) {
	for _, candidate := range validDocumentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document kind %q", value)
}
