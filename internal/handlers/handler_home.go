package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

func registerHomeRoutes(router *gin.Engine) {
	router.GET("/", home)
	router.GET("/health", health)
	router.GET("/api/v1/currencies", listCurrencies)
}

// home godoc
// @Summary Service banner
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "ledger_backend"})
}

// health godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Returns the closed set of currencies the ledger accepts
// @Tags currencies
// @Produce json
// @Success 200 {array} domain.Currency
// @Router /api/v1/currencies [get]
func listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, domain.ListCurrencies())
}
