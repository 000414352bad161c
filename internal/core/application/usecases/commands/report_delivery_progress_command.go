package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReportDeliveryProgressCommandIsNotConstructed = errors.New(
	"ReportDeliveryProgressCommand must be created via NewReportDeliveryProgressCommand constructor",
)

// ProgressStage names a delivery-progress event reported by the dispatch
// collaborator.
type ProgressStage string

const (
	// StageInTransit records the batch's departure.
	StageInTransit ProgressStage = "in_transit"

	// StageDelivered records delivery completion.
	StageDelivered ProgressStage = "delivered"
)

// ReportDeliveryProgressCommand carries an externally driven progress
// event for an assigned batch.
type ReportDeliveryProgressCommand struct { //nolint:recvcheck //using for validation
	batchID kernel.UUID
	stage   ProgressStage

	guard guard.ConstructorGuard
}

// NewReportDeliveryProgressCommand creates a progress event command.
// The stage must be one of in_transit or delivered.
func NewReportDeliveryProgressCommand(
	batchID kernel.UUID, stage ProgressStage,
) (ReportDeliveryProgressCommand, error) {
	cmd := ReportDeliveryProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBatchID(batchID),
		cmd.setStage(stage),
	); err != nil {
		return ReportDeliveryProgressCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportDeliveryProgressCommand) Validate() error {
	return c.guard.Validate(ErrReportDeliveryProgressCommandIsNotConstructed)
}

// BatchID returns the batch the event refers to.
func (c ReportDeliveryProgressCommand) BatchID() kernel.UUID {
	return c.batchID
}

// Stage returns the reported progress stage.
func (c ReportDeliveryProgressCommand) Stage() ProgressStage {
	return c.stage
}

func (c *ReportDeliveryProgressCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	c.batchID = batchID
	return nil
}

func (c *ReportDeliveryProgressCommand) setStage(stage ProgressStage) error {
	if stage != StageInTransit && stage != StageDelivered {
		return errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("%q is not a known progress stage", string(stage)))
	}

	c.stage = stage
	return nil
}
