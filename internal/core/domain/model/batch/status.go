package batch

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery batch.
// It implements a state machine with defined transitions:
//
//	Collecting ──> Ready ──> Assigned ──> InTransit ──> Delivered
//	     │           │           │
//	     └───────────┴───────────┴──> Cancelled
//
// Status only moves forward; Cancelled is reachable from any state before
// InTransit.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Collecting is the initial status while the batch still accepts orders.
	Collecting

	// Ready indicates the batch reached its dispatch threshold and awaits a
	// driver.
	Ready

	// Assigned indicates a driver is bound to the batch.
	Assigned

	// InTransit indicates the batch left for delivery. Cancellation is no
	// longer possible from here.
	InTransit

	// Delivered indicates the batch completed delivery.
	// This is a final state.
	Delivered

	// Cancelled indicates the batch was abandoned before transit. Member
	// orders are released for rebatching.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Collecting: "Collecting",
		Ready:      "Ready",
		Assigned:   "Assigned",
		InTransit:  "InTransit",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Collecting: "Collecting",
		Ready:      "Ready",
		Assigned:   "Assigned",
		InTransit:  "InTransit",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsOpen reports whether the batch still accepts orders.
func (s Status) IsOpen() bool {
	return s == Collecting
}

// Ready transitions the status to Ready.
// Valid only from Collecting.
func (s Status) Ready() (Status, error) {
	if s != Collecting {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to mark ready", s.String()),
		)
	}
	return Ready, nil
}

// Assign transitions the status to Assigned when a driver is bound.
// Valid only from Ready.
func (s Status) Assign() (Status, error) {
	if s != Ready {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to assign a driver", s.String()),
		)
	}
	return Assigned, nil
}

// Transit transitions the status to InTransit.
// Valid only from Assigned.
func (s Status) Transit() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to start transit", s.String()),
		)
	}
	return InTransit, nil
}

// Deliver transitions the status to Delivered.
// Valid only from InTransit; Delivered is a final state.
func (s Status) Deliver() (Status, error) {
	if s != InTransit {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
// Valid from Collecting, Ready and Assigned; a batch in transit or already
// delivered cannot be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Collecting && s != Ready && s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
	return Cancelled, nil
}
