package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"sharedledger/internal/identity"
	"sharedledger/internal/statement"

	"github.com/gin-gonic/gin"
)

// Statement handler functions

// @Summary Download the account statement
// @Description PDF with the summary and every entry, newest first
// @Tags statement
// @Produce application/pdf
// @Param refresh query bool false "Reload before rendering"
// @Success 200 {file} file "Statement PDF"
// @Failure 503 {object} map[string]interface{} "Ledger is loading"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/statement.pdf [get]
func exportStatement(c *gin.Context) {
	snap, err := currentSnapshot(c.Request.Context(), wantsFresh(c))
	if err != nil {
		log.Printf("Error loading ledger for statement: %v", err)
		statusCode, message := handleLedgerError(err)
		c.JSON(statusCode, gin.H{"error": message})
		return
	}

	provider, _ := directory.Lookup(identity.RoleProvider)
	client, _ := directory.Lookup(identity.RoleClient)
	now := nowFunc()

	var pdfBuffer bytes.Buffer
	if err := statement.Render(&pdfBuffer, statement.New(provider.Name, client.Name, snap, now)); err != nil {
		log.Printf("Error rendering statement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error rendering statement"})
		return
	}

	fileName := fmt.Sprintf("statement-%s.pdf", now.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
