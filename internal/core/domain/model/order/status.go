package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the approval/fulfilment state of an order as seen by
// the batch assignment engine. It implements a state machine with defined
// transitions to ensure orders follow the correct workflow.
//
// State transitions:
//
//	Pending ──> Approved ──> Assigned ──> Delivered
//	   │            ▲            │
//	   │            └────────────┘
//	   │            (batch cancelled, release for rebatching)
//	   └──> Rejected
//
// Reopening an approved or rejected order returns it to Pending and clears
// its frozen batching weight; see Order.Reopen.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status before the approval decision.
	Pending

	// Approved indicates the order passed approval and is eligible for
	// batching. Approved orders without a batch reference show up in the
	// stranded-orders monitoring query.
	Approved

	// Assigned indicates the order's batch has a driver bound to it.
	Assigned

	// Delivered indicates the order's batch completed delivery.
	// This is a final state.
	Delivered

	// Rejected indicates the order failed approval and is excluded from
	// batching until reopened.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Approved:  "Approved",
		Assigned:  "Assigned",
		Delivered: "Delivered",
		Rejected:  "Rejected",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Approved:  "Approved",
		Assigned:  "Assigned",
		Delivered: "Delivered",
		Rejected:  "Rejected",
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

// Approve transitions the status to Approved.
// Valid only from Pending.
func (s Status) Approve() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to approve", s.String()),
		)
	}
	return Approved, nil
}

// Reject transitions the status to Rejected.
// Valid only from Pending.
func (s Status) Reject() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to reject", s.String()),
		)
	}
	return Rejected, nil
}

// Assign transitions the status to Assigned, fired when a driver is bound
// to the order's batch. Valid from Approved; Assigned is accepted again so
// that replaying the batch-level assignment is harmless.
func (s Status) Assign() (Status, error) {
	if s != Approved && s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return Assigned, nil
}

// Release transitions the status back to Approved when the order's batch
// is cancelled before dispatch and the order must be rebatched.
// Valid from Approved and Assigned.
func (s Status) Release() (Status, error) {
	if s != Approved && s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to release", s.String()),
		)
	}
	return Approved, nil
}

// Deliver transitions the status to Delivered.
// Valid only from Assigned; Delivered is a final state.
func (s Status) Deliver() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}

// Reopen transitions the status back to Pending for a fresh approval cycle.
// Valid from Approved and Rejected; orders already assigned or delivered
// cannot be reopened.
func (s Status) Reopen() (Status, error) {
	if s != Approved && s != Rejected {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to reopen", s.String()),
		)
	}
	return Pending, nil
}
