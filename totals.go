package main

import (
	"log"
	"net/http"

	"sharedledger/internal/ledger"

	"github.com/gin-gonic/gin"
)

// Totals handler functions

// @Summary Get the ledger summary
// @Description Total billed, total paid, balance (paid minus billed) and percent cleared, rounded to two decimals
// @Tags totals
// @Produce json
// @Param refresh query bool false "Reload before answering"
// @Success 200 {object} SummaryResponse "Summary with settled, pending or credit status"
// @Failure 503 {object} map[string]interface{} "Ledger is loading"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/summary [get]
func getSummary(c *gin.Context) {
	snap, err := currentSnapshot(c.Request.Context(), wantsFresh(c))
	if err != nil {
		log.Printf("Error calculating summary: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	summary := ledger.ComputeSummary(snap.Costs, snap.Payments)
	c.JSON(http.StatusOK, SummaryResponse{
		Summary: summary.Rounded(),
		Status:  ledger.StatusOf(summary.Balance),
	})
}
