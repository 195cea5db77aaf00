package main

import (
	"log"
	"net/http"

	"sharedledger/internal/ledger"

	"github.com/gin-gonic/gin"
)

// Ledger entry handler functions

// @Summary Get the ledger
// @Description Merged feed of costs and payments, newest first, with totals. Served from the background refresh cache unless refresh=true.
// @Tags ledger
// @Produce json
// @Param refresh query bool false "Reload before answering"
// @Success 200 {object} LedgerResponse "Feed, summary and overview"
// @Failure 503 {object} map[string]interface{} "Ledger is loading"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/ledger [get]
func getLedger(c *gin.Context) {
	snap, err := currentSnapshot(c.Request.Context(), wantsFresh(c))
	if err != nil {
		log.Printf("Error loading ledger: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	overview := ledger.BuildOverview(snap.Costs, snap.Payments, nowFunc())
	c.JSON(http.StatusOK, LedgerResponse{
		Feed:     ledger.MergeFeed(snap.Costs, snap.Payments),
		Summary:  overview.Summary.Rounded(),
		Overview: overview,
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
	})
}

// @Summary Trigger a sync
// @Description Start a background reload. Ignored while another reload is running.
// @Tags ledger
// @Produce json
// @Success 202 {object} SyncResponse "Whether a reload was started"
// @Router /api/sync [post]
func syncLedger(c *gin.Context) {
	c.JSON(http.StatusAccepted, SyncResponse{Started: refresher.Trigger()})
}

// @Summary Record a cost
// @Description Record billable work. Amount must be greater than zero. With save_as_preset and a description, a matching preset is created unless one exists.
// @Tags ledger
// @Accept json
// @Produce json
// @Param X-Ledger-Role header string true "Acting party (provider or client)"
// @Param cost body CostRequest true "Cost data"
// @Success 201 {object} CostResponse "Created cost"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/costs [post]
func createCost(c *gin.Context) {
	who, ok := actingIdentity(c)
	if !ok {
		return
	}

	var request CostRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cost, receipt, err := engine.AddCost(c.Request.Context(), ledger.CostInput{
		Amount:       string(request.Amount),
		ExtraCharges: string(request.ExtraCharges),
		Description:  request.Description,
		Category:     request.Category,
		SaveAsPreset: request.SaveAsPreset,
	}, who)
	if err != nil {
		log.Printf("Error creating cost: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}
	scheduleReload()

	c.JSON(http.StatusCreated, CostResponse{
		Entry:     cost,
		Mirrored:  receipt.Mirrored(),
		SyncError: syncErrorText(receipt),
	})
}

// @Summary Record a payment
// @Description Record a settlement. Amount must be greater than zero; blank method and note get defaults.
// @Tags ledger
// @Accept json
// @Produce json
// @Param X-Ledger-Role header string true "Acting party (provider or client)"
// @Param payment body PaymentRequest true "Payment data"
// @Success 201 {object} PaymentResponse "Created payment"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/payments [post]
func createPayment(c *gin.Context) {
	who, ok := actingIdentity(c)
	if !ok {
		return
	}

	var request PaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	payment, receipt, err := engine.AddPayment(c.Request.Context(), ledger.PaymentInput{
		Amount: string(request.Amount),
		Method: request.Method,
		Note:   request.Note,
	}, who)
	if err != nil {
		log.Printf("Error creating payment: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}
	scheduleReload()

	c.JSON(http.StatusCreated, PaymentResponse{
		Entry:     payment,
		Mirrored:  receipt.Mirrored(),
		SyncError: syncErrorText(receipt),
	})
}

// @Summary Delete an entry
// @Description Delete a cost or payment. The provider may delete any entry; the client only payments it recorded.
// @Tags ledger
// @Produce json
// @Param X-Ledger-Role header string true "Acting party (provider or client)"
// @Param kind path string true "Entry kind (cost or payment)"
// @Param id path string true "Entry ID"
// @Success 200 {object} DeleteResponse "Entry deleted"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 403 {object} map[string]interface{} "Not allowed"
// @Failure 404 {object} map[string]interface{} "Entry not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/entries/{kind}/{id} [delete]
func deleteEntry(c *gin.Context) {
	who, ok := actingIdentity(c)
	if !ok {
		return
	}

	kind, err := parseKind(c.Param("kind"))
	if err != nil {
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	receipt, err := engine.DeleteEntry(c.Request.Context(), c.Param("id"), kind, who)
	if err != nil {
		log.Printf("Error deleting entry: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}
	scheduleReload()

	c.JSON(http.StatusOK, DeleteResponse{
		Message:   "Entry deleted successfully",
		Mirrored:  receipt.Mirrored(),
		SyncError: syncErrorText(receipt),
	})
}
