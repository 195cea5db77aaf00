package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"sharedledger/internal/ledger"
	"sharedledger/internal/models"
)

// AmountInput is an amount as typed into a form. It accepts a JSON number
// or a JSON string and keeps the raw text; the ledger does the strict parse.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string")
	}
	*a = AmountInput(n.String())
	return nil
}

// SessionRequest selects the acting party
type SessionRequest struct {
	Role     string `json:"role"`
	Passcode string `json:"passcode"`
}

// CostRequest represents a new cost entry
type CostRequest struct {
	Amount       AmountInput `json:"amount" swaggertype:"string" example:"1500"`
	ExtraCharges AmountInput `json:"extra_charges" swaggertype:"string" example:"200"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	SaveAsPreset bool        `json:"save_as_preset"`
}

// PaymentRequest represents a new payment entry
type PaymentRequest struct {
	Amount AmountInput `json:"amount" swaggertype:"string" example:"500"`
	Method string      `json:"method"`
	Note   string      `json:"note"`
}

// CostResponse is a created cost and the outcome of mirroring it
type CostResponse struct {
	Entry     models.CostEntry `json:"entry"`
	Mirrored  bool             `json:"mirrored"`
	SyncError string           `json:"sync_error,omitempty"`
}

// PaymentResponse is a created payment and the outcome of mirroring it
type PaymentResponse struct {
	Entry     models.PaymentEntry `json:"entry"`
	Mirrored  bool                `json:"mirrored"`
	SyncError string              `json:"sync_error,omitempty"`
}

// DeleteResponse reports a deleted entry
type DeleteResponse struct {
	Message   string `json:"message"`
	Mirrored  bool   `json:"mirrored"`
	SyncError string `json:"sync_error,omitempty"`
}

// LedgerResponse is the merged feed with its totals
type LedgerResponse struct {
	Feed     []models.LedgerItem `json:"feed"`
	Summary  ledger.Summary      `json:"summary"`
	Overview ledger.Overview     `json:"overview"`
	Source   ledger.Source       `json:"source"`
	LoadedAt time.Time           `json:"loaded_at"`
}

// SummaryResponse is the rounded summary with its status
type SummaryResponse struct {
	ledger.Summary
	Status ledger.Status `json:"status"`
}

// SyncResponse reports whether a reload was started
type SyncResponse struct {
	Started bool `json:"started"`
}

// PresetRequest represents a preset to create or update
type PresetRequest struct {
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// SyncURLRequest replaces the remote endpoint
type SyncURLRequest struct {
	URL string `json:"url"`
}

// SyncURLResponse is the configured remote endpoint
type SyncURLResponse struct {
	URL        string `json:"url"`
	Configured bool   `json:"configured"`
}
