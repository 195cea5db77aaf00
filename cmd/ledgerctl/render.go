package main

import (
	"fmt"
	"io"
	"strings"

	"sharedledger/internal/ledger"
	"sharedledger/internal/models"
	"sharedledger/internal/statement"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Width(16)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	oweStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	creditStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
)

func renderOverview(w io.Writer, o ledger.Overview, source ledger.Source) {
	s := o.Summary.Rounded()

	fmt.Fprintln(w, titleStyle.Render("Shared ledger"))
	row(w, "Total billed", statement.Money(s.TotalCost))
	row(w, "Total paid", statement.Money(s.TotalPaid))
	row(w, "Balance", balanceStyle(o.Status).Render(statement.Money(s.Balance)))
	row(w, "Cleared", fmt.Sprintf("%.2f%%", s.PercentCleared))
	row(w, "Status", balanceStyle(o.Status).Render(string(o.Status)))
	row(w, "Last 30 days", fmt.Sprintf("billed %s, paid %s", statement.Money(o.RecentCost), statement.Money(o.RecentPaid)))
	if o.LatestCost != nil {
		row(w, "Latest cost", fmt.Sprintf("%s on %s", statement.Money(o.LatestCost.Total()), o.LatestCost.Timestamp.Format("2006-01-02")))
	}
	if o.LatestPayment != nil {
		row(w, "Latest payment", fmt.Sprintf("%s on %s", statement.Money(o.LatestPayment.Amount), o.LatestPayment.Timestamp.Format("2006-01-02")))
	}
	row(w, "Entries", fmt.Sprintf("%d", o.EntryCount))
	fmt.Fprintln(w, mutedStyle.Render("source: "+string(source)))
}

func row(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(value))
}

func balanceStyle(status ledger.Status) lipgloss.Style {
	switch status {
	case ledger.StatusPending:
		return oweStyle
	case ledger.StatusCredit:
		return creditStyle
	}
	return valueStyle
}

func renderFeed(w io.Writer, items []models.LedgerItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No entries yet."))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%-10s  %-8s  %-36s  %-40s  %14s", "Date", "Type", "ID", "Details", "Amount")))
	for _, item := range items {
		amount := fmt.Sprintf("%14s", statement.Money(item.Amount()))
		if item.Kind == models.KindCost {
			amount = oweStyle.Render(amount)
		} else {
			amount = creditStyle.Render(amount)
		}
		fmt.Fprintf(w, "%-10s  %-8s  %-36s  %-40s  %s\n",
			item.Timestamp().Format("2006-01-02"),
			strings.ToLower(string(item.Kind)),
			item.ID(),
			clip(itemDetails(item), 40),
			amount,
		)
	}
}

func itemDetails(item models.LedgerItem) string {
	if item.Kind == models.KindCost && item.Cost != nil {
		return fmt.Sprintf("%s [%s] by %s", item.Cost.Description, item.Cost.Category, item.Cost.RecordedBy)
	}
	if item.Payment != nil {
		return fmt.Sprintf("%s %s by %s", item.Payment.Method, item.Payment.Note, item.Payment.RecordedBy)
	}
	return ""
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func renderPresets(w io.Writer, list []models.Preset) {
	if len(list) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No presets."))
		return
	}
	for _, p := range list {
		fmt.Fprintf(w, "%-36s  %-24s  %-12s  %s\n", p.ID, p.Label, p.Category, valueStyle.Render(statement.Money(p.Amount)))
	}
}

// renderReceipt reports a failed mirror; the local write already succeeded
func renderReceipt(w io.Writer, receipt ledger.Receipt) {
	if receipt.Mirrored() {
		return
	}
	fmt.Fprintln(w, warningStyle.Render("Saved locally, remote sync failed: "+receipt.SyncErr.Error()))
}
