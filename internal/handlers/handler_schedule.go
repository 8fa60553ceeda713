package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// scheduleHandler handles HTTP requests for obligation schedules.
type scheduleHandler struct {
	scheduleService   portssvc.ScheduleSvcFacade
	allocationService portssvc.AllocationSvcFacade
}

func newScheduleHandler(ss portssvc.ScheduleSvcFacade, as portssvc.AllocationSvcFacade) *scheduleHandler {
	return &scheduleHandler{scheduleService: ss, allocationService: as}
}

// registerScheduleRoutes registers routes related to obligation schedules.
func registerScheduleRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade, allocationService portssvc.AllocationSvcFacade) {
	h := newScheduleHandler(scheduleService, allocationService)

	schedules := rg.Group("/schedules")
	{
		schedules.POST("/plan", h.createInstallmentPlan)
		schedules.GET("/plan/:quoteID", h.listSchedulesByQuote)
		schedules.GET("", h.listOpenSchedules)
		schedules.GET("/:id", h.getSchedule)
		schedules.GET("/:id/remaining", h.getRemainingAmount)
		schedules.POST("/:id/refresh", h.refreshScheduleStatus)
		schedules.POST("/:id/settlement-currency", h.recordSettlementCurrency)
		schedules.POST("/:id/cancel", h.cancelSchedule)
	}
}

// createInstallmentPlan godoc
// @Summary Generate an installment plan for a quote
// @Description Breaks a quote total into dated schedules. The installment amounts must sum exactly to the total.
// @Tags schedules
// @Accept json
// @Produce json
// @Param plan body dto.CreateInstallmentPlanRequest true "Plan details"
// @Success 201 {array} dto.ScheduleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 422 {object} map[string]string "Installments do not sum to the quote total"
// @Security BearerAuth
// @Router /schedules/plan [post]
func (h *scheduleHandler) createInstallmentPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createInstallmentPlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedules, err := h.scheduleService.CreateInstallmentPlan(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToScheduleResponses(schedules))
}

// listSchedulesByQuote godoc
// @Summary List the installment plan of a quote
// @Tags schedules
// @Produce json
// @Param quoteID path string true "Quote ID"
// @Success 200 {array} dto.ScheduleResponse
// @Security BearerAuth
// @Router /schedules/plan/{quoteID} [get]
func (h *scheduleHandler) listSchedulesByQuote(c *gin.Context) {
	schedules, err := h.scheduleService.ListSchedulesByQuote(c.Request.Context(), c.Param("quoteID"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponses(schedules))
}

// listOpenSchedules godoc
// @Summary List open schedules of a counterparty
// @Description Returns allocation candidates in allocation order: OVERDUE, PARTIAL, PENDING, earliest due date first.
// @Tags schedules
// @Produce json
// @Param counterpartyKind query string true "STUDENT, MENTOR or PROFESSOR"
// @Param counterpartyID query string true "Counterparty ID"
// @Param currencyCode query string true "Currency code"
// @Success 200 {array} dto.ScheduleResponse
// @Security BearerAuth
// @Router /schedules [get]
func (h *scheduleHandler) listOpenSchedules(c *gin.Context) {
	kind := domain.CounterpartyKind(c.Query("counterpartyKind"))
	counterpartyID := c.Query("counterpartyID")
	currencyCode := c.Query("currencyCode")
	if !kind.IsValid() || counterpartyID == "" || !domain.IsSupportedCurrency(currencyCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "counterpartyKind, counterpartyID and currencyCode are required"})
		return
	}

	schedules, err := h.scheduleService.ListOpenSchedules(c.Request.Context(), kind, counterpartyID, currencyCode)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponses(schedules))
}

// getSchedule godoc
// @Summary Get a schedule by ID
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{id} [get]
func (h *scheduleHandler) getSchedule(c *gin.Context) {
	schedule, err := h.scheduleService.GetScheduleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// getRemainingAmount godoc
// @Summary Get the unallocated remainder of a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} dto.RemainingAmountResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{id}/remaining [get]
func (h *scheduleHandler) getRemainingAmount(c *gin.Context) {
	scheduleID := c.Param("id")
	remaining, err := h.allocationService.GetRemainingAmount(c.Request.Context(), scheduleID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RemainingAmountResponse{
		ScheduleID:      scheduleID,
		RemainingAmount: remaining,
	})
}

// refreshScheduleStatus godoc
// @Summary Recompute a schedule's paid amount and status
// @Description Recomputes state from the allocation records. Idempotent.
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{id}/refresh [post]
func (h *scheduleHandler) refreshScheduleStatus(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedule, err := h.allocationService.RefreshScheduleStatus(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// recordSettlementCurrency godoc
// @Summary Record the observed settlement currency of a schedule
// @Description Notes the currency the counterparty actually settles in, when it differs from the contractual one. No conversion is performed.
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param currency body dto.RecordSettlementCurrencyRequest true "Observed currency"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} map[string]string "Invalid or unsupported currency"
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{id}/settlement-currency [post]
func (h *scheduleHandler) recordSettlementCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSettlementCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordSettlementCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedule, err := h.scheduleService.RecordSettlementCurrency(c.Request.Context(), c.Param("id"), req.CurrencyCode, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// cancelSchedule godoc
// @Summary Cancel a schedule
// @Description Marks the schedule cancelled. Schedules are never deleted.
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Failure 404 {object} map[string]string "Schedule not found"
// @Failure 409 {object} map[string]string "Schedule already has allocations"
// @Security BearerAuth
// @Router /schedules/{id}/cancel [post]
func (h *scheduleHandler) cancelSchedule(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.scheduleService.CancelSchedule(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
