package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sharedledger/internal/models"
)

var emptyList = json.RawMessage("[]")

// Local maps the ledger collections and the sync endpoint onto a KV.
// Collections are always read and written whole.
type Local struct {
	kv KV
}

// NewLocal wraps kv.
func NewLocal(kv KV) *Local {
	return &Local{kv: kv}
}

// RawCosts returns the stored cost collection verbatim, or an empty list.
func (l *Local) RawCosts(ctx context.Context) (json.RawMessage, error) {
	return l.rawList(ctx, KeyCosts)
}

// RawPayments returns the stored payment collection verbatim, or an empty list.
func (l *Local) RawPayments(ctx context.Context) (json.RawMessage, error) {
	return l.rawList(ctx, KeyPayments)
}

// SaveCosts replaces the stored cost collection.
func (l *Local) SaveCosts(ctx context.Context, costs []models.CostEntry) error {
	if costs == nil {
		costs = []models.CostEntry{}
	}
	return l.putJSON(ctx, KeyCosts, costs)
}

// SavePayments replaces the stored payment collection.
func (l *Local) SavePayments(ctx context.Context, payments []models.PaymentEntry) error {
	if payments == nil {
		payments = []models.PaymentEntry{}
	}
	return l.putJSON(ctx, KeyPayments, payments)
}

// Presets returns the stored presets, or the default seed when presets were
// never saved.
func (l *Local) Presets(ctx context.Context) ([]models.Preset, error) {
	data, ok, err := l.kv.Get(ctx, KeyPresets)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	if !ok {
		return models.DefaultPresets(), nil
	}

	var presets []models.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if presets == nil {
		presets = []models.Preset{}
	}
	return presets, nil
}

// SavePresets replaces the stored preset collection.
func (l *Local) SavePresets(ctx context.Context, presets []models.Preset) error {
	if presets == nil {
		presets = []models.Preset{}
	}
	return l.putJSON(ctx, KeyPresets, presets)
}

// SyncURL returns the configured remote endpoint, or "" when none is set.
func (l *Local) SyncURL(ctx context.Context) (string, error) {
	data, ok, err := l.kv.Get(ctx, KeySyncURL)
	if err != nil {
		return "", fmt.Errorf("read sync url: %w", err)
	}
	if !ok {
		return "", nil
	}
	var url string
	if err := json.Unmarshal(data, &url); err != nil {
		// browser exports keep the url unquoted
		return strings.TrimSpace(string(data)), nil
	}
	return url, nil
}

// SetSyncURL stores the remote endpoint. An empty url disables remote sync.
func (l *Local) SetSyncURL(ctx context.Context, url string) error {
	return l.putJSON(ctx, KeySyncURL, strings.TrimSpace(url))
}

// SeedSyncURL stores url only when no endpoint was ever stored.
func (l *Local) SeedSyncURL(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	_, ok, err := l.kv.Get(ctx, KeySyncURL)
	if err != nil {
		return fmt.Errorf("read sync url: %w", err)
	}
	if ok {
		return nil
	}
	return l.SetSyncURL(ctx, url)
}

func (l *Local) rawList(ctx context.Context, key string) (json.RawMessage, error) {
	data, ok, err := l.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return emptyList, nil
	}
	return json.RawMessage(data), nil
}

func (l *Local) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := l.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
