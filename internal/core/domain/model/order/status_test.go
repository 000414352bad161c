package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []order.Status{
			order.Pending,
			order.Approved,
			order.Assigned,
			order.Delivered,
			order.Rejected,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		assert.IsType(t, errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "value is invalid: status")
		assert.Contains(t, err.Error(), "0 is not a valid status")
	})

	t.Run("should reject invalid status values", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Status(-1),
			order.Status(6),
			order.Status(100),
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should reject status value %d", int(status)), func(t *testing.T) {
				err := status.Validate()

				require.Error(t, err)
				assert.IsType(t, errs.ValueIsInvalidError{}, err)
				assert.Contains(t, err.Error(), fmt.Sprintf("%d is not a valid status", int(status)))
			})
		}
	})
}

func TestStatus_String(t *testing.T) {
	t.Run("should return correct string for valid statuses", func(t *testing.T) {
		testCases := []struct {
			status   order.Status
			expected string
		}{
			{order.Pending, "Pending"},
			{order.Approved, "Approved"},
			{order.Assigned, "Assigned"},
			{order.Delivered, "Delivered"},
			{order.Rejected, "Rejected"},
		}

		for _, tc := range testCases {
			t.Run(fmt.Sprintf("should return %s for %d", tc.expected, int(tc.status)), func(t *testing.T) {
				assert.Equal(t, tc.expected, tc.status.String())
			})
		}
	})

	t.Run("should return Unknown for invalid statuses", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Unknown,
			order.Status(-1),
			order.Status(6),
		}

		for _, status := range invalidStatuses {
			assert.Equal(t, "Unknown", status.String())
		}
	})
}

func TestStatus_Approve(t *testing.T) {
	t.Run("should allow transition from Pending", func(t *testing.T) {
		newStatus, err := order.Pending.Approve()

		require.NoError(t, err)
		assert.Equal(t, order.Approved, newStatus)
	})

	t.Run("should reject transition from non-pending statuses", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Unknown,
			order.Approved,
			order.Assigned,
			order.Delivered,
			order.Rejected,
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should reject transition from %s", status.String()), func(t *testing.T) {
				newStatus, err := status.Approve()

				require.Error(t, err)
				assert.Equal(t, order.Status(0), newStatus)
				assert.Contains(t, err.Error(),
					fmt.Sprintf("%s is not a valid status to approve", status.String()))
			})
		}
	})
}

func TestStatus_Reject(t *testing.T) {
	t.Run("should allow transition from Pending", func(t *testing.T) {
		newStatus, err := order.Pending.Reject()

		require.NoError(t, err)
		assert.Equal(t, order.Rejected, newStatus)
	})

	t.Run("should reject transition from Approved", func(t *testing.T) {
		newStatus, err := order.Approved.Reject()

		require.Error(t, err)
		assert.Equal(t, order.Status(0), newStatus)
		assert.Contains(t, err.Error(), "Approved is not a valid status to reject")
	})
}

func TestStatus_Assign(t *testing.T) {
	t.Run("should allow transition from Approved", func(t *testing.T) {
		newStatus, err := order.Approved.Assign()

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, newStatus)
	})

	t.Run("should allow transition from Assigned (replay)", func(t *testing.T) {
		newStatus, err := order.Assigned.Assign()

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, newStatus)
	})

	t.Run("should reject transition from other statuses", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Unknown,
			order.Pending,
			order.Delivered,
			order.Rejected,
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should reject transition from %s", status.String()), func(t *testing.T) {
				_, err := status.Assign()

				require.Error(t, err)
				assert.Contains(t, err.Error(),
					fmt.Sprintf("%s is not a valid status to assign", status.String()))
			})
		}
	})
}

func TestStatus_Release(t *testing.T) {
	t.Run("should return Assigned order to Approved", func(t *testing.T) {
		newStatus, err := order.Assigned.Release()

		require.NoError(t, err)
		assert.Equal(t, order.Approved, newStatus)
	})

	t.Run("should keep Approved order Approved", func(t *testing.T) {
		newStatus, err := order.Approved.Release()

		require.NoError(t, err)
		assert.Equal(t, order.Approved, newStatus)
	})

	t.Run("should reject transition from Delivered", func(t *testing.T) {
		_, err := order.Delivered.Release()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Delivered is not a valid status to release")
	})
}

func TestStatus_Deliver(t *testing.T) {
	t.Run("should allow transition from Assigned", func(t *testing.T) {
		newStatus, err := order.Assigned.Deliver()

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, newStatus)
	})

	t.Run("should reject transition from other statuses", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Unknown,
			order.Pending,
			order.Approved,
			order.Delivered,
			order.Rejected,
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should reject transition from %s", status.String()), func(t *testing.T) {
				_, err := status.Deliver()

				require.Error(t, err)
				assert.Contains(t, err.Error(),
					fmt.Sprintf("%s is not a valid status to deliver", status.String()))
			})
		}
	})
}

func TestStatus_Reopen(t *testing.T) {
	t.Run("should allow transition from Approved", func(t *testing.T) {
		newStatus, err := order.Approved.Reopen()

		require.NoError(t, err)
		assert.Equal(t, order.Pending, newStatus)
	})

	t.Run("should allow transition from Rejected", func(t *testing.T) {
		newStatus, err := order.Rejected.Reopen()

		require.NoError(t, err)
		assert.Equal(t, order.Pending, newStatus)
	})

	t.Run("should reject transition from Assigned", func(t *testing.T) {
		_, err := order.Assigned.Reopen()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Assigned is not a valid status to reopen")
	})
}

func TestStatus_StateMachine(t *testing.T) {
	t.Run("should follow full delivery workflow", func(t *testing.T) {
		status := order.Pending

		status, err := status.Approve()
		require.NoError(t, err)
		assert.Equal(t, order.Approved, status)

		status, err = status.Assign()
		require.NoError(t, err)
		assert.Equal(t, order.Assigned, status)

		status, err = status.Deliver()
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, status)
	})

	t.Run("should follow release and rebatch workflow", func(t *testing.T) {
		status := order.Pending

		status, err := status.Approve()
		require.NoError(t, err)

		status, err = status.Assign()
		require.NoError(t, err)

		status, err = status.Release()
		require.NoError(t, err)
		assert.Equal(t, order.Approved, status)

		status, err = status.Assign()
		require.NoError(t, err)
		assert.Equal(t, order.Assigned, status)
	})

	t.Run("should not modify original status during transitions", func(t *testing.T) {
		originalStatus := order.Pending

		newStatus, err := originalStatus.Approve()
		require.NoError(t, err)

		assert.Equal(t, order.Pending, originalStatus)
		assert.Equal(t, order.Approved, newStatus)
	})
}
