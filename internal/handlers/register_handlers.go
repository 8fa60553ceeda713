package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
	"github.com/studiaconsult/ledger_backend/internal/middleware"
)

// RegisterRoutes attaches all API routes to the router. Everything under
// /api/v1 requires a valid bearer token.
func RegisterRoutes(router *gin.Engine, svcs *portssvc.ServiceContainer, jwtSecret string) {
	registerHomeRoutes(router)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtSecret))
	{
		registerAccountRoutes(v1, svcs.Account)
		registerTransactionRoutes(v1, svcs.Journal)
		registerScheduleRoutes(v1, svcs.Schedule, svcs.Allocation)
		registerPaymentRoutes(v1, svcs.Payment, svcs.Allocation)
		registerReportingRoutes(v1, svcs.Reporting)
	}
}

// respondWithError translates service errors into HTTP responses. Sentinel
// errors carry the business meaning; AppError carries the message.
func respondWithError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrAllocationExceedsPayment),
		errors.Is(err, apperrors.ErrAllocationExceedsSchedule),
		errors.Is(err, apperrors.ErrScheduleTotalMismatch),
		errors.Is(err, apperrors.ErrInactiveAccount),
		errors.Is(err, apperrors.ErrValidationBlocked):
		status = http.StatusUnprocessableEntity
	}

	if status != http.StatusInternalServerError {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		} else {
			message = err.Error()
		}
	} else {
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
	}

	c.JSON(status, gin.H{"error": message})
}
