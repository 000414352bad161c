// Package http exposes the batching engine over a REST API. Handlers
// translate between the wire format and application commands or queries;
// all business decisions stay in the handlers they delegate to.
package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/regionlock"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	approveOrderHandler   commands.ApproveOrderCommandHandler
	rejectOrderHandler    commands.RejectOrderCommandHandler
	reopenOrderHandler    commands.ReopenOrderCommandHandler
	consolidateHandler    commands.ConsolidateBatchesCommandHandler
	assignDriverHandler   commands.AssignDriverCommandHandler
	reportProgressHandler commands.ReportDeliveryProgressCommandHandler
	cancelBatchHandler    commands.CancelBatchCommandHandler
	reconcileHandler      commands.ReconcileBatchWeightCommandHandler

	getOpenBatchesHandler      queries.GetOpenBatchesQueryHandler
	getStrandedOrdersHandler   queries.GetStrandedOrdersQueryHandler
	getDriverCandidatesHandler queries.GetDriverCandidatesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	approveOrderHandler commands.ApproveOrderCommandHandler,
	rejectOrderHandler commands.RejectOrderCommandHandler,
	reopenOrderHandler commands.ReopenOrderCommandHandler,
	consolidateHandler commands.ConsolidateBatchesCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	reportProgressHandler commands.ReportDeliveryProgressCommandHandler,
	cancelBatchHandler commands.CancelBatchCommandHandler,
	reconcileHandler commands.ReconcileBatchWeightCommandHandler,
	getOpenBatchesHandler queries.GetOpenBatchesQueryHandler,
	getStrandedOrdersHandler queries.GetStrandedOrdersQueryHandler,
	getDriverCandidatesHandler queries.GetDriverCandidatesQueryHandler,
) *Server {
	return &Server{
		approveOrderHandler:        approveOrderHandler,
		rejectOrderHandler:         rejectOrderHandler,
		reopenOrderHandler:         reopenOrderHandler,
		consolidateHandler:         consolidateHandler,
		assignDriverHandler:        assignDriverHandler,
		reportProgressHandler:      reportProgressHandler,
		cancelBatchHandler:         cancelBatchHandler,
		reconcileHandler:           reconcileHandler,
		getOpenBatchesHandler:      getOpenBatchesHandler,
		getStrandedOrdersHandler:   getStrandedOrdersHandler,
		getDriverCandidatesHandler: getDriverCandidatesHandler,
	}
}

// RegisterRoutes binds every endpoint onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders/:id/approve", s.ApproveOrder)
	api.POST("/orders/:id/reject", s.RejectOrder)
	api.POST("/orders/:id/reopen", s.ReopenOrder)
	api.GET("/orders/stranded", s.GetStrandedOrders)
	api.POST("/batches/consolidate", s.ConsolidateBatches)
	api.POST("/batches/:id/driver", s.AssignDriver)
	api.POST("/batches/:id/progress", s.ReportDeliveryProgress)
	api.POST("/batches/:id/cancel", s.CancelBatch)
	api.POST("/batches/:id/reconcile", s.ReconcileBatchWeight)
	api.GET("/batches/open", s.GetOpenBatches)
	api.GET("/batches/:id/drivers", s.GetDriverCandidates)
}

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AssignDriverRequest carries the driver to bind to a batch.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// ReportProgressRequest carries a delivery progress stage.
type ReportProgressRequest struct {
	Stage string `json:"stage"`
}

// OpenBatchResponse represents one open batch's fill state.
type OpenBatchResponse struct {
	ID                string          `json:"id"`
	Region            string          `json:"region"`
	AccumulatedWeight decimal.Decimal `json:"accumulated_weight"`
	Capacity          decimal.Decimal `json:"capacity"`
	RemainingCapacity decimal.Decimal `json:"remaining_capacity"`
}

// DriverCandidatesResponse carries the drivers the dispatch service
// offered for a batch.
type DriverCandidatesResponse struct {
	BatchID   string   `json:"batch_id"`
	Region    string   `json:"region"`
	DriverIDs []string `json:"driver_ids"`
}

// StrandedOrderResponse represents one approved order without a batch.
type StrandedOrderResponse struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customer_id"`
	Region     *string          `json:"region,omitempty"`
	Weight     *decimal.Decimal `json:"weight,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// ApproveOrder handles POST /api/v1/orders/:id/approve. Approval runs the
// full allocation pipeline; replaying it for an already-batched order is a
// no-op and still returns success.
func (s *Server) ApproveOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewApproveOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	if err = s.approveOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RejectOrder handles POST /api/v1/orders/:id/reject. Only pending orders
// can be rejected.
func (s *Server) RejectOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewRejectOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	if err = s.rejectOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ReopenOrder handles POST /api/v1/orders/:id/reopen. Orders still
// referencing a batch are refused; the batch must be cancelled first.
func (s *Server) ReopenOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewReopenOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	if err = s.reopenOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ConsolidateBatches handles POST /api/v1/batches/consolidate. An optional
// region query parameter scopes the pass to one region.
func (s *Server) ConsolidateBatches(ctx echo.Context) error {
	var cmd commands.ConsolidateBatchesCommand

	if region := ctx.QueryParam("region"); region != "" {
		regionKey, err := kernel.NewRegionKey(region)
		if err != nil {
			return badRequest(ctx, "Invalid region: "+err.Error())
		}

		cmd, err = commands.NewConsolidateBatchesCommand(regionKey)
		if err != nil {
			return badRequest(ctx, "Invalid region: "+err.Error())
		}
	} else {
		cmd = commands.NewConsolidateAllBatchesCommand()
	}

	if err := s.consolidateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// AssignDriver handles POST /api/v1/batches/:id/driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	var req AssignDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	cmd, err := commands.NewAssignDriverCommand(batchID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver assignment: "+err.Error())
	}

	if err = s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ReportDeliveryProgress handles POST /api/v1/batches/:id/progress.
func (s *Server) ReportDeliveryProgress(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	var req ReportProgressRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReportDeliveryProgressCommand(batchID, commands.ProgressStage(req.Stage))
	if err != nil {
		return badRequest(ctx, "Invalid progress report: "+err.Error())
	}

	if err = s.reportProgressHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelBatch handles POST /api/v1/batches/:id/cancel.
func (s *Server) CancelBatch(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	cmd, err := commands.NewCancelBatchCommand(batchID)
	if err != nil {
		return badRequest(ctx, "Invalid batch id: "+err.Error())
	}

	if err = s.cancelBatchHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ReconcileBatchWeight handles POST /api/v1/batches/:id/reconcile.
func (s *Server) ReconcileBatchWeight(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	cmd, err := commands.NewReconcileBatchWeightCommand(batchID)
	if err != nil {
		return badRequest(ctx, "Invalid batch id: "+err.Error())
	}

	if err = s.reconcileHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetOpenBatches handles GET /api/v1/batches/open. An optional region
// query parameter scopes the listing.
func (s *Server) GetOpenBatches(ctx echo.Context) error {
	query := queries.NewGetOpenBatchesQuery()

	if region := ctx.QueryParam("region"); region != "" {
		regionKey, err := kernel.NewRegionKey(region)
		if err != nil {
			return badRequest(ctx, "Invalid region: "+err.Error())
		}

		query, err = queries.NewGetOpenBatchesQueryForRegion(regionKey)
		if err != nil {
			return badRequest(ctx, "Invalid region: "+err.Error())
		}
	}

	batches, err := s.getOpenBatchesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve open batches",
		})
	}

	response := make([]OpenBatchResponse, len(batches))
	for i, b := range batches {
		response[i] = OpenBatchResponse{
			ID:                b.ID.String(),
			Region:            b.Region,
			AccumulatedWeight: b.AccumulatedWeight,
			Capacity:          b.Capacity,
			RemainingCapacity: b.RemainingCapacity,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDriverCandidates handles GET /api/v1/batches/:id/drivers. The
// candidate list comes straight from the dispatch service; callers pick a
// driver and confirm through the driver assignment endpoint.
func (s *Server) GetDriverCandidates(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid batch id")
	}

	query, err := queries.NewGetDriverCandidatesQuery(batchID)
	if err != nil {
		return badRequest(ctx, "Invalid batch id: "+err.Error())
	}

	result, err := s.getDriverCandidatesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: err.Error(),
			})
		}

		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve driver candidates",
		})
	}

	driverIDs := make([]string, len(result.DriverIDs))
	for i, id := range result.DriverIDs {
		driverIDs[i] = id.String()
	}

	return ctx.JSON(http.StatusOK, DriverCandidatesResponse{
		BatchID:   result.BatchID.String(),
		Region:    result.Region,
		DriverIDs: driverIDs,
	})
}

// GetStrandedOrders handles GET /api/v1/orders/stranded.
func (s *Server) GetStrandedOrders(ctx echo.Context) error {
	query := queries.NewGetStrandedOrdersQuery()

	orders, err := s.getStrandedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve stranded orders",
		})
	}

	response := make([]StrandedOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = StrandedOrderResponse{
			ID:         o.ID.String(),
			CustomerID: o.CustomerID.String(),
			Region:     o.Region,
			Weight:     o.Weight,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// commandError maps domain and application failures onto HTTP statuses.
// Lock timeouts are retryable and reported as 503 so callers back off
// instead of treating contention as a hard failure.
func commandError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, commands.ErrOrderNotFound) || errors.Is(err, commands.ErrBatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrRegionNotResolvable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrAllocationRace) || errors.Is(err, order.ErrOrderAlreadyBatched):
		status = http.StatusConflict
	case errors.Is(err, regionlock.ErrLockTimeout):
		status = http.StatusServiceUnavailable
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}
