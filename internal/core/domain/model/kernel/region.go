package kernel

import (
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrRegionKeyIsNotConstructed is returned when attempting to use an
// improperly initialized RegionKey. Region keys must be created via
// NewRegionKey to guarantee normalization.
var ErrRegionKeyIsNotConstructed = errs.NewValueIsRequiredError(
	"region key must be created via NewRegionKey constructor")

// RegionKey is the normalized identifier of a delivery sub-area, used to
// group orders geographically for a batch. It is an immutable value object:
// surrounding whitespace is trimmed, internal runs of whitespace are
// collapsed, and comparison is case-insensitive, so "  Almaty  District"
// and "almaty district" resolve to the same key.
//
// A batch never exists without a region key; an order whose region cannot
// be resolved is rejected rather than grouped under a sentinel key.
type RegionKey struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewRegionKey creates a RegionKey from a raw region name.
// Returns an error when the name is empty or blank after normalization.
func NewRegionKey(raw string) (RegionKey, error) {
	key := RegionKey{
		guard: guard.NewConstructorGuard(),
	}

	if err := key.setValue(raw); err != nil {
		return RegionKey{}, err
	}

	return key, nil
}

// Validate checks that the RegionKey was created via NewRegionKey.
// The zero value is invalid and fails this check.
func (r RegionKey) Validate() error {
	return r.guard.Validate(ErrRegionKeyIsNotConstructed)
}

// Value returns the normalized region name.
func (r RegionKey) Value() string {
	return r.value
}

// String implements fmt.Stringer.
func (r RegionKey) String() string {
	return r.value
}

// IsEqual compares two region keys case-insensitively.
func (r RegionKey) IsEqual(other RegionKey) bool {
	return strings.EqualFold(r.value, other.value)
}

// LockKey returns the canonical form used to key the region concurrency
// guard. Case-insensitive equality must map to the same lock, so the key
// is lowercased.
func (r RegionKey) LockKey() string {
	return strings.ToLower(r.value)
}

func (r *RegionKey) setValue(raw string) error {
	normalized := strings.Join(strings.Fields(raw), " ")
	if normalized == "" {
		return errs.NewValueIsRequiredError("region key")
	}

	r.value = normalized
	return nil
}
