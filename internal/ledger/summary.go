package ledger

import (
	"math"
	"time"

	"sharedledger/internal/models"

	"github.com/shopspring/decimal"
)

// RecentWindow is the look-back used for the recent activity totals.
const RecentWindow = 30 * 24 * time.Hour

// Summary is derived from the collections on every read and never stored.
type Summary struct {
	TotalCost      float64 `json:"total_cost"`
	TotalPaid      float64 `json:"total_paid"`
	Balance        float64 `json:"balance"`
	PercentCleared float64 `json:"percent_cleared"`
}

// ComputeSummary totals both collections. Balance is paid minus owed, so a
// negative balance means the client still owes money. With nothing owed the
// ledger counts as fully cleared.
func ComputeSummary(costs []models.CostEntry, payments []models.PaymentEntry) Summary {
	var s Summary
	for _, c := range costs {
		s.TotalCost += c.Total()
	}
	for _, p := range payments {
		s.TotalPaid += p.Amount
	}
	s.Balance = s.TotalPaid - s.TotalCost
	s.PercentCleared = 100
	if s.TotalCost > 0 {
		s.PercentCleared = math.Min(100, s.TotalPaid/s.TotalCost*100)
	}
	return s
}

// Rounded returns s with every figure rounded to two decimals for display.
func (s Summary) Rounded() Summary {
	return Summary{
		TotalCost:      round2(s.TotalCost),
		TotalPaid:      round2(s.TotalPaid),
		Balance:        round2(s.Balance),
		PercentCleared: round2(s.PercentCleared),
	}
}

// Status names the sign of the balance.
type Status string

const (
	StatusSettled Status = "settled"
	StatusPending Status = "pending"
	StatusCredit  Status = "credit"
)

// StatusOf classifies a balance at cent precision.
func StatusOf(balance float64) Status {
	switch decimal.NewFromFloat(balance).Round(2).Sign() {
	case 0:
		return StatusSettled
	case -1:
		return StatusPending
	default:
		return StatusCredit
	}
}

// Overview is the dashboard view of the ledger.
type Overview struct {
	Summary       Summary              `json:"summary"`
	Status        Status               `json:"status"`
	RecentCost    float64              `json:"recent_cost"`
	RecentPaid    float64              `json:"recent_paid"`
	LatestCost    *models.CostEntry    `json:"latest_cost,omitempty"`
	LatestPayment *models.PaymentEntry `json:"latest_payment,omitempty"`
	EntryCount    int                  `json:"entry_count"`
}

// BuildOverview computes the summary plus recent activity relative to now.
func BuildOverview(costs []models.CostEntry, payments []models.PaymentEntry, now time.Time) Overview {
	summary := ComputeSummary(costs, payments)
	o := Overview{
		Summary:    summary,
		Status:     StatusOf(summary.Balance),
		EntryCount: len(costs) + len(payments),
	}

	since := now.Add(-RecentWindow)
	for i := range costs {
		c := costs[i]
		if c.Timestamp.After(since) {
			o.RecentCost += c.Total()
		}
		if o.LatestCost == nil || c.Timestamp.After(o.LatestCost.Timestamp) {
			o.LatestCost = &c
		}
	}
	for i := range payments {
		p := payments[i]
		if p.Timestamp.After(since) {
			o.RecentPaid += p.Amount
		}
		if o.LatestPayment == nil || p.Timestamp.After(o.LatestPayment.Timestamp) {
			o.LatestPayment = &p
		}
	}
	return o
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
