package order

import "strings"

// Address is the delivery-address snapshot frozen onto the order at
// placement time. Region is the structured fast path for region
// resolution; Raw preserves the customer's free-text address for the
// heuristic fallback when the structured field is absent.
//
// Address is a plain value: a blank Region is a legal state (it means the
// resolver must fall back), so no constructor guard is needed.
type Address struct {
	Region string
	City   string
	Street string
	Raw    string
}

// HasRegion reports whether the structured region field is present and
// non-blank.
func (a Address) HasRegion() bool {
	return strings.TrimSpace(a.Region) != ""
}

// IsZero reports whether the snapshot carries no address data at all.
func (a Address) IsZero() bool {
	return a.Region == "" && a.City == "" && a.Street == "" && a.Raw == ""
}
