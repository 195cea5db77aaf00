package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Preset handler functions

// @Summary Get all presets
// @Description Quick-bill templates, seeded with four defaults on first use
// @Tags presets
// @Produce json
// @Success 200 {array} models.Preset "List of presets"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/presets [get]
func getPresets(c *gin.Context) {
	list, err := registry.List(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching presets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching presets"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Create preset
// @Description Create a new quick-bill template
// @Tags presets
// @Accept json
// @Produce json
// @Param preset body PresetRequest true "Preset data (label and positive amount required)"
// @Success 201 {object} models.Preset "Created preset"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/presets [post]
func createPreset(c *gin.Context) {
	var request PresetRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	preset, err := registry.Add(c.Request.Context(), request.Label, request.Amount, request.Category)
	if err != nil {
		log.Printf("Error creating preset: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, preset)
}

// @Summary Update preset
// @Description Change the label and amount of a preset
// @Tags presets
// @Accept json
// @Produce json
// @Param id path string true "Preset ID"
// @Param preset body PresetRequest true "Updated preset data"
// @Success 200 {object} models.Preset "Updated preset"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Preset not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/presets/{id} [put]
func updatePreset(c *gin.Context) {
	id := c.Param("id")
	var request PresetRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	preset, err := registry.Update(c.Request.Context(), id, request.Label, request.Amount)
	if err != nil {
		log.Printf("Error updating preset: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, preset)
}

// @Summary Delete preset
// @Description Delete a specific preset by ID
// @Tags presets
// @Produce json
// @Param id path string true "Preset ID"
// @Success 200 {object} map[string]interface{} "Preset deleted successfully"
// @Failure 404 {object} map[string]interface{} "Preset not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/presets/{id} [delete]
func deletePreset(c *gin.Context) {
	if err := registry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		log.Printf("Error deleting preset: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted successfully"})
}
