package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// paymentHandler handles HTTP requests for payments and their allocations.
type paymentHandler struct {
	paymentService    portssvc.PaymentSvcFacade
	allocationService portssvc.AllocationSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade, as portssvc.AllocationSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps, allocationService: as}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade, allocationService portssvc.AllocationSvcFacade) {
	h := newPaymentHandler(paymentService, allocationService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/validate", h.validatePayment)
		payments.POST("/:id/reject", h.rejectPayment)
		payments.GET("/:id/allocations", h.getPaymentAllocations)
		payments.GET("/:id/allocations/suggest", h.suggestAllocation)
		payments.POST("/:id/allocations", h.allocatePayment)
		payments.GET("/:id/allocations/stats", h.getAllocationStats)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Runs business-rule validation and records the payment pending validation. Warnings are returned alongside; errors block.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.CreatePaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 422 {object} dto.CreatePaymentResponse "Blocked by validation errors"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, result, err := h.paymentService.CreatePayment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		// A blocked payment carries the full alert list so the operator can
		// see every failed check at once.
		if errors.Is(err, apperrors.ErrValidationBlocked) && result != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "payment blocked by validation errors", "alerts": result.Alerts})
			return
		}
		respondWithError(c, err)
		return
	}

	resp := dto.CreatePaymentResponse{Payment: dto.ToPaymentResponse(payment)}
	if result != nil {
		resp.Alerts = result.Alerts
	}
	c.JSON(http.StatusCreated, resp)
}

// listPayments godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPaymentsResponse
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// validatePayment godoc
// @Summary Validate (settle) a pending payment
// @Description Applies allocations, updates schedules and appends the journal entry as one atomic unit. Without an explicit allocation set, the suggested distribution is applied.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param allocations body dto.ValidatePaymentRequest false "Optional explicit allocations"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment not pending validation"
// @Failure 422 {object} map[string]string "Allocation would overfill a schedule or the payment"
// @Security BearerAuth
// @Router /payments/{id}/validate [post]
func (h *paymentHandler) validatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ValidatePaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for validatePayment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	validatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.ValidatePayment(c.Request.Context(), c.Param("id"), req.Allocations, validatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// rejectPayment godoc
// @Summary Reject a pending payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 204
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment not pending validation"
// @Security BearerAuth
// @Router /payments/{id}/reject [post]
func (h *paymentHandler) rejectPayment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.paymentService.RejectPayment(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getPaymentAllocations godoc
// @Summary List a payment's allocations
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {array} dto.AllocationResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id}/allocations [get]
func (h *paymentHandler) getPaymentAllocations(c *gin.Context) {
	allocations, err := h.paymentService.GetPaymentAllocations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponses(allocations))
}

// suggestAllocation godoc
// @Summary Suggest an allocation for a payment
// @Description Proposes a greedy oldest-debt-first distribution of the payment's unallocated remainder. Read-only; nothing is written.
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Param counterpartyKind query string false "Override counterparty kind"
// @Param counterpartyID query string false "Override counterparty ID"
// @Success 200 {array} domain.AllocationSuggestion
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id}/allocations/suggest [get]
func (h *paymentHandler) suggestAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var filters dto.SuggestAllocationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		logger.Warn("Failed to bind query for suggestAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	suggestions, err := h.allocationService.SuggestAllocation(c.Request.Context(), c.Param("id"), filters)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// allocatePayment godoc
// @Summary Apply an explicit allocation set to a payment
// @Description All pairs commit atomically or none do. Invariants are re-checked against locked rows.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param allocations body []dto.AllocationInput true "Allocation pairs"
// @Success 200 {object} dto.AllocationOutcome
// @Failure 404 {object} map[string]string "Payment or schedule not found"
// @Failure 422 {object} map[string]string "Allocation would overfill a schedule or the payment"
// @Security BearerAuth
// @Router /payments/{id}/allocations [post]
func (h *paymentHandler) allocatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var inputs []dto.AllocationInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		logger.Warn("Failed to bind JSON for allocatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allocations, schedules, err := h.allocationService.AllocatePayment(c.Request.Context(), c.Param("id"), inputs, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AllocationOutcome{
		Allocations: dto.ToAllocationResponses(allocations),
		Schedules:   dto.ToScheduleResponses(schedules),
	})
}

// getAllocationStats godoc
// @Summary Get allocation statistics of a payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} domain.AllocationStats
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id}/allocations/stats [get]
func (h *paymentHandler) getAllocationStats(c *gin.Context) {
	stats, err := h.allocationService.GetAllocationStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
