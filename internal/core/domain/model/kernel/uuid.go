package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID
// that bypassed the constructor functions.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies the engine's aggregates and their collaborators: orders,
// batches, customers, products and drivers all share this id type. It wraps
// github.com/google/uuid as an immutable value object; the zero value is
// invalid and Validate rejects it, so an id that reached a command has
// always been through a constructor.
//
// Example:
//
//	batchID := kernel.NewUUID()
//
//	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
//	if err != nil {
//	    // reject the request
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) identifier. New batches get their
// id this way at allocation time.
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses a UUID from its textual form. HTTP handlers use it
// on path parameters and the driver-pool client on roster entries; any
// format uuid.Parse accepts is accepted here.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes reconstructs a UUID from its 16-byte binary form, the shape
// the postgres DTOs store. A nil UUID read back from the database fails
// validation rather than producing a usable zero id.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical "xxxxxxxx-xxxx-..." form, used in API
// responses and log fields.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the wrapped uuid.UUID for persistence mapping. The DTOs
// are its only intended consumers; domain code compares with IsEqual.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both ids refer to the same aggregate.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value. Command
// constructors call this on every incoming id.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
