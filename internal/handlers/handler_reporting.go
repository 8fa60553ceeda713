package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
)

// reportingHandler handles HTTP requests for derived reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/account-balances", h.getAccountBalances)
	}
}

// getAccountBalances godoc
// @Summary Account balances report
// @Description Derives every account's balance from the journal at request time.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.AccountBalancesReport
// @Security BearerAuth
// @Router /reports/account-balances [get]
func (h *reportingHandler) getAccountBalances(c *gin.Context) {
	report, err := h.reportingService.GetAccountBalancesReport(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
