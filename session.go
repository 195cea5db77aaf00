package main

import (
	"errors"
	"log"
	"net/http"

	"sharedledger/internal/identity"

	"github.com/gin-gonic/gin"
)

// Session handler functions

// @Summary Select the acting party
// @Description Pick the provider or client identity with its passcode. This only chooses who the UI acts as; it is not authentication.
// @Tags session
// @Accept json
// @Produce json
// @Param session body SessionRequest true "Role and passcode"
// @Success 200 {object} identity.Identity "Selected identity"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 401 {object} map[string]interface{} "Wrong passcode"
// @Router /api/session [post]
func createSession(c *gin.Context) {
	var request SessionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	role, err := identity.ParseRole(request.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be provider or client"})
		return
	}

	who, err := directory.Authenticate(role, request.Passcode)
	if err != nil {
		if errors.Is(err, identity.ErrWrongPasscode) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong passcode"})
			return
		}
		log.Printf("Error selecting identity: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, who)
}
