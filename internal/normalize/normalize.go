// Package normalize coerces loosely shaped ledger records, from the remote
// endpoint or from older local data, into the canonical entry types.
package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"sharedledger/internal/models"

	"github.com/google/uuid"
)

// Placeholders used when a record carries no usable value.
const (
	DefaultDescription = "New Entry"
	DefaultNote        = "Log Entry"
	DefaultRecordedBy  = "User"
	DefaultCategory    = "General"
	DefaultMethod      = models.MethodGPay
)

var (
	descriptionKeys = []string{"description", "desc", "work", "note", "item"}
	noteKeys        = []string{"note", "description", "desc"}
	recordedByKeys  = []string{"addedBy", "addedby", "user"}
	categoryKeys    = []string{"type", "category"}
	extraKeys       = []string{"extraCharges", "extra_charges", "extra"}

	leadingNumber = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)`)

	timeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	// json cannot encode years outside 0000-9999
	maxEpochMillis = time.Date(9999, 12, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli()
)

// Normalizer turns raw records into canonical entries. Now and NewID are
// swappable so tests can pin generated values.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

// New returns a Normalizer using the wall clock and random UUIDs.
func New() *Normalizer {
	return &Normalizer{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

var defaultNormalizer = New()

// Costs normalizes raw with the default Normalizer.
func Costs(raw json.RawMessage) []models.CostEntry {
	return defaultNormalizer.Costs(raw)
}

// Payments normalizes raw with the default Normalizer.
func Payments(raw json.RawMessage) []models.PaymentEntry {
	return defaultNormalizer.Payments(raw)
}

// Costs decodes raw as a JSON array and normalizes every item into a
// CostEntry. Anything that is not an array yields an empty slice.
func (n *Normalizer) Costs(raw json.RawMessage) []models.CostEntry {
	items := decodeList(raw)
	costs := make([]models.CostEntry, 0, len(items))
	now := n.Now()
	for _, item := range items {
		costs = append(costs, models.CostEntry{
			ID:           n.id(item),
			Timestamp:    Timestamp(item["date"], now),
			Category:     firstString(item, categoryKeys, DefaultCategory),
			Description:  firstString(item, descriptionKeys, DefaultDescription),
			BaseAmount:   Amount(item["amount"]),
			ExtraCharges: Amount(firstValue(item, extraKeys)),
			RecordedBy:   firstString(item, recordedByKeys, DefaultRecordedBy),
		})
	}
	return costs
}

// Payments decodes raw as a JSON array and normalizes every item into a
// PaymentEntry. Anything that is not an array yields an empty slice.
func (n *Normalizer) Payments(raw json.RawMessage) []models.PaymentEntry {
	items := decodeList(raw)
	payments := make([]models.PaymentEntry, 0, len(items))
	now := n.Now()
	for _, item := range items {
		payments = append(payments, models.PaymentEntry{
			ID:         n.id(item),
			Timestamp:  Timestamp(item["date"], now),
			Method:     firstString(item, []string{"method"}, DefaultMethod),
			Amount:     Amount(item["amount"]),
			Note:       firstString(item, noteKeys, DefaultNote),
			RecordedBy: firstString(item, recordedByKeys, DefaultRecordedBy),
		})
	}
	return payments
}

func (n *Normalizer) id(item map[string]any) string {
	if id := stringValue(item["id"]); id != "" {
		return id
	}
	return n.NewID()
}

// Amount coerces v into a number. Numbers pass through; strings such as
// "Rs. 1,200.50" are stripped down to their numeric characters and the
// leading number is parsed. Everything else, including values beyond
// models.MaxAmount, is 0.
func Amount(v any) float64 {
	switch val := v.(type) {
	case float64:
		return bounded(val)
	case int:
		return bounded(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return bounded(f)
	case string:
		return bounded(ParseAmount(val))
	default:
		return 0
	}
}

func bounded(f float64) float64 {
	if math.IsNaN(f) || math.Abs(f) > models.MaxAmount {
		return 0
	}
	return f
}

// ParseAmount applies the tolerant string parse used by Amount.
func ParseAmount(s string) float64 {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		case r == '.':
			// A period only counts as a decimal point when a digit follows it,
			// so currency prefixes like "Rs." do not start the number.
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				b.WriteRune(r)
			}
		}
	}

	match := leadingNumber.FindString(b.String())
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return f
}

// Timestamp parses v as an entry date, falling back to now. Dates whose
// year falls outside 0000-9999 also fall back to now.
func Timestamp(v any, now time.Time) time.Time {
	switch val := v.(type) {
	case string:
		raw := strings.TrimSpace(val)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				if parsed = parsed.UTC(); parsed.Year() >= 0 && parsed.Year() <= 9999 {
					return parsed
				}
				return now
			}
		}
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return epochMillis(f, now)
		}
	case float64:
		return epochMillis(val, now)
	}
	return now
}

// Spreadsheet backends sometimes hand back epoch milliseconds.
func epochMillis(ms float64, now time.Time) time.Time {
	if ms <= 0 || ms > float64(maxEpochMillis) {
		return now
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// decodeList splits raw into its array items and decodes each on its own,
// so one unreadable record becomes an empty item instead of failing the
// whole list.
func decodeList(raw json.RawMessage) []map[string]any {
	var list []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &list) != nil {
		return nil
	}
	items := make([]map[string]any, 0, len(list))
	for _, element := range list {
		var item map[string]any
		dec := json.NewDecoder(bytes.NewReader(element))
		dec.UseNumber()
		if err := dec.Decode(&item); err != nil || item == nil {
			item = map[string]any{}
		}
		items = append(items, item)
	}
	return items
}

func firstValue(item map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := item[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(item map[string]any, keys []string, fallback string) string {
	for _, key := range keys {
		if s := stringValue(item[key]); s != "" {
			return s
		}
	}
	return fallback
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return stringValue(f)
	default:
		return ""
	}
}
