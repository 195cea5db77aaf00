// Package store is the local, durable side of the ledger: a small key-value
// abstraction and the Local facade that maps the ledger's four namespaces
// onto it.
package store

import "context"

// Keys of the four persisted namespaces.
const (
	KeyCosts    = "ledger_design_costs"
	KeyPayments = "ledger_payments"
	KeyPresets  = "ledger_settings"
	KeySyncURL  = "ledger_gas_url"
)

// KV is whole-value key-value persistence. Put replaces the stored value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}
