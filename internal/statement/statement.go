// Package statement renders the ledger as a printable PDF account statement.
package statement

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sharedledger/internal/ledger"
	"sharedledger/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Currency prefixes every amount on the statement.
const Currency = "Rs."

// Statement is everything printed on one export.
type Statement struct {
	Provider    string
	Client      string
	GeneratedAt time.Time
	Overview    ledger.Overview
	Feed        []models.LedgerItem
}

// New assembles a statement from one snapshot.
func New(provider, client string, snap ledger.Snapshot, now time.Time) Statement {
	return Statement{
		Provider:    provider,
		Client:      client,
		GeneratedAt: now,
		Overview:    ledger.BuildOverview(snap.Costs, snap.Payments, now),
		Feed:        ledger.MergeFeed(snap.Costs, snap.Payments),
	}
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 28, "L"},
	{"Type", 22, "L"},
	{"Details", 70, "L"},
	{"By", 30, "L"},
	{"Amount", 40, "R"},
}

// Render writes s as an A4 PDF to w.
func Render(w io.Writer, s Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Account statement", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Account statement", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s / %s", s.Provider, s.Client)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+s.GeneratedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := s.Overview.Summary.Rounded()
	pdf.SetFont("Arial", "B", 11)
	for _, row := range [][2]string{
		{"Total billed", Money(summary.TotalCost)},
		{"Total paid", Money(summary.TotalPaid)},
		{"Balance", Money(summary.Balance)},
		{"Cleared", fmt.Sprintf("%.2f%%", summary.PercentCleared)},
		{"Status", strings.ToUpper(string(s.Overview.Status))},
	} {
		pdf.CellFormat(40, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Arial", "B", 10)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(s.Feed) == 0 {
		pdf.CellFormat(0, 8, "No entries", "1", 1, "C", false, 0, "")
	}
	for _, item := range s.Feed {
		cells := []string{
			item.Timestamp().Format("2006-01-02"),
			kindLabel(item.Kind),
			tr(truncate(details(item), 48)),
			tr(truncate(item.RecordedBy(), 18)),
			tr(Money(item.Amount())),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render statement: %w", err)
	}
	return pdf.Output(w)
}

// Money formats v with two decimals and thousands separators, for example
// "Rs. 1,200.50" or "-Rs. 700.00".
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return fmt.Sprintf("%s%s %s.%s", sign, Currency, group(whole), frac)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func kindLabel(kind models.EntryKind) string {
	if kind == models.KindCost {
		return "Cost"
	}
	return "Payment"
}

func details(item models.LedgerItem) string {
	if item.Kind == models.KindCost && item.Cost != nil {
		if item.Cost.ExtraCharges > 0 {
			return fmt.Sprintf("%s (%s, +%s extra)", item.Cost.Description, item.Cost.Category, Money(item.Cost.ExtraCharges))
		}
		return fmt.Sprintf("%s (%s)", item.Cost.Description, item.Cost.Category)
	}
	if item.Payment != nil {
		return fmt.Sprintf("%s via %s", item.Payment.Note, item.Payment.Method)
	}
	return ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
