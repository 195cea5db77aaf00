package ledger

import (
	"sort"

	"sharedledger/internal/models"
)

// MergeFeed tags every entry with its kind and returns one list, newest
// first. Entries with equal timestamps keep costs-then-payments input order.
func MergeFeed(costs []models.CostEntry, payments []models.PaymentEntry) []models.LedgerItem {
	items := make([]models.LedgerItem, 0, len(costs)+len(payments))
	for i := range costs {
		c := costs[i]
		items = append(items, models.LedgerItem{Kind: models.KindCost, Cost: &c})
	}
	for i := range payments {
		p := payments[i]
		items = append(items, models.LedgerItem{Kind: models.KindPayment, Payment: &p})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp().After(items[j].Timestamp())
	})
	return items
}
