package models

import "time"

// EntryKind discriminates the two ledger collections. The values double as the
// entryType sent to the remote endpoint.
type EntryKind string

const (
	KindCost    EntryKind = "COST"
	KindPayment EntryKind = "PAYMENT"
)

// Valid reports whether k names one of the two collections.
func (k EntryKind) Valid() bool {
	return k == KindCost || k == KindPayment
}

// Payment methods offered by the client forms. The set is open: any non-empty
// method string is stored as given.
const (
	MethodSampathBank = "Sampath Bank"
	MethodOtherBanks  = "Other Banks"
	MethodCash        = "Cash"
	MethodGPay        = "GPay"
)

// MaxAmount bounds any single amount so that totals stay finite.
const MaxAmount = 1e12

// CostEntry is one billable unit of work recorded by the provider.
type CostEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"date"`
	Category     string    `json:"type"`
	Description  string    `json:"description"`
	BaseAmount   float64   `json:"amount"`
	ExtraCharges float64   `json:"extraCharges"`
	RecordedBy   string    `json:"addedBy"`
}

// Total is the amount the entry adds to what is owed.
func (c CostEntry) Total() float64 {
	return c.BaseAmount + c.ExtraCharges
}

// PaymentEntry is one settlement made by the client.
type PaymentEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"date"`
	Method     string    `json:"method"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note"`
	RecordedBy string    `json:"addedBy"`
}

// LedgerItem is a display-only union of a cost or a payment. Exactly one of
// Cost and Payment is set, matching Kind.
type LedgerItem struct {
	Kind    EntryKind     `json:"kind"`
	Cost    *CostEntry    `json:"cost,omitempty"`
	Payment *PaymentEntry `json:"payment,omitempty"`
}

// ID returns the id of the wrapped entry.
func (i LedgerItem) ID() string {
	if i.Kind == KindCost && i.Cost != nil {
		return i.Cost.ID
	}
	if i.Payment != nil {
		return i.Payment.ID
	}
	return ""
}

// Timestamp returns the creation time of the wrapped entry.
func (i LedgerItem) Timestamp() time.Time {
	if i.Kind == KindCost && i.Cost != nil {
		return i.Cost.Timestamp
	}
	if i.Payment != nil {
		return i.Payment.Timestamp
	}
	return time.Time{}
}

// Amount returns the signed effect of the item on the balance: payments are
// positive, costs negative.
func (i LedgerItem) Amount() float64 {
	if i.Kind == KindCost && i.Cost != nil {
		return -i.Cost.Total()
	}
	if i.Payment != nil {
		return i.Payment.Amount
	}
	return 0
}

// RecordedBy returns the display name attached to the wrapped entry.
func (i LedgerItem) RecordedBy() string {
	if i.Kind == KindCost && i.Cost != nil {
		return i.Cost.RecordedBy
	}
	if i.Payment != nil {
		return i.Payment.RecordedBy
	}
	return ""
}
