package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sharedledger/internal/identity"
	"sharedledger/internal/ledger"
	"sharedledger/internal/models"

	"github.com/gin-gonic/gin"
)

// roleHeader names the acting party on write requests
const roleHeader = "X-Ledger-Role"

// errLedgerLoading is returned when no snapshot is cached and a load is
// already running
var errLedgerLoading = errors.New("ledger is loading")

// handleLedgerError converts ledger errors to appropriate HTTP responses
func handleLedgerError(err error) (statusCode int, message string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	var authErr *models.AuthorizationError
	if errors.As(err, &authErr) {
		return http.StatusForbidden, authErr.Error()
	}

	if errors.Is(err, models.ErrNotFound) {
		return http.StatusNotFound, "Resource not found"
	}

	if errors.Is(err, errLedgerLoading) {
		return http.StatusServiceUnavailable, "Ledger is loading, try again shortly"
	}

	// Default to internal server error
	return http.StatusInternalServerError, "Internal server error"
}

// actingIdentity resolves the role header to one of the two parties. On
// failure it writes the error response and returns false.
func actingIdentity(c *gin.Context) (identity.Identity, bool) {
	role, err := identity.ParseRole(c.GetHeader(roleHeader))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s header must be provider or client", roleHeader)})
		return identity.Identity{}, false
	}

	who, err := directory.Lookup(role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return identity.Identity{}, false
	}
	return who, true
}

// parseKind accepts an entry kind in any case
func parseKind(raw string) (models.EntryKind, error) {
	kind := models.EntryKind(strings.ToUpper(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", models.NewValidationError("kind", "kind must be cost or payment")
	}
	return kind, nil
}

// currentSnapshot returns the cached snapshot, loading synchronously when
// nothing is cached or fresh is set
func currentSnapshot(ctx context.Context, fresh bool) (ledger.Snapshot, error) {
	if !fresh {
		if snap, ok := refresher.Latest(); ok {
			return snap, nil
		}
	}

	snap, started, err := refresher.Refresh(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	if started {
		return snap, nil
	}

	// another load is running, serve what it last produced
	if snap, ok := refresher.Latest(); ok {
		return snap, nil
	}
	return ledger.Snapshot{}, errLedgerLoading
}

// scheduleReload reloads the ledger shortly after a write
func scheduleReload() {
	if writeReloadDelay > 0 {
		refresher.TriggerAfter(writeReloadDelay)
	}
}

// syncErrorText renders the best-effort mirror result
func syncErrorText(receipt ledger.Receipt) string {
	if receipt.Mirrored() {
		return ""
	}
	return receipt.SyncErr.Error()
}

// wantsFresh reports whether the request asked to bypass the cache
func wantsFresh(c *gin.Context) bool {
	switch strings.ToLower(c.Query("refresh")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
