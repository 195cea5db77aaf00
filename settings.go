package main

import (
	"log"
	"net/http"
	"strings"

	"sharedledger/internal/remote"

	"github.com/gin-gonic/gin"
)

// Settings handler functions

// @Summary Get the sync URL
// @Description The remote endpoint the ledger mirrors to. Empty means local only.
// @Tags settings
// @Produce json
// @Success 200 {object} SyncURLResponse "Configured endpoint"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/settings/sync-url [get]
func getSyncURL(c *gin.Context) {
	current, err := local.SyncURL(c.Request.Context())
	if err != nil {
		log.Printf("Error reading sync url: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading sync url"})
		return
	}

	c.JSON(http.StatusOK, SyncURLResponse{URL: current, Configured: current != ""})
}

// @Summary Set the sync URL
// @Description Replace the remote endpoint and reload from it. An empty URL turns remote sync off.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body SyncURLRequest true "New endpoint"
// @Success 200 {object} SyncURLResponse "Stored endpoint"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/settings/sync-url [put]
func updateSyncURL(c *gin.Context) {
	var request SyncURLRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := remote.ValidateURL(request.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := local.SetSyncURL(c.Request.Context(), request.URL); err != nil {
		log.Printf("Error saving sync url: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving sync url"})
		return
	}
	refresher.Trigger()

	stored := strings.TrimSpace(request.URL)
	c.JSON(http.StatusOK, SyncURLResponse{URL: stored, Configured: stored != ""})
}
