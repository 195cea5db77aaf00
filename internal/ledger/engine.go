// Package ledger merges the cost and payment streams into one ledger. It owns
// loading (remote first, local fallback), entry creation and deletion with
// their authorization rules, and the derived summary and feed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sharedledger/internal/identity"
	"sharedledger/internal/models"
	"sharedledger/internal/normalize"
	"sharedledger/internal/presets"
	"sharedledger/internal/remote"
	"sharedledger/internal/store"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Defaults applied to blank form fields.
const (
	DefaultCostDescription = "Design Work"
	DefaultCostCategory    = "Design"
	DefaultPaymentNote     = "Payment Settlement"
	DefaultPaymentMethod   = models.MethodSampathBank
)

// Source says where a Snapshot came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Snapshot is one normalized read of both collections.
type Snapshot struct {
	Costs    []models.CostEntry    `json:"costs"`
	Payments []models.PaymentEntry `json:"payments"`
	Source   Source                `json:"source"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Fetcher reads both collections from the remote endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) (remote.Snapshot, error)
}

// CostInput is a cost as submitted by the provider. Amounts are the raw
// form values.
type CostInput struct {
	Amount       string
	ExtraCharges string
	Description  string
	Category     string
	SaveAsPreset bool
}

// PaymentInput is a payment as submitted by the client.
type PaymentInput struct {
	Amount string
	Method string
	Note   string
}

// Receipt is the outcome of the best-effort remote half of a write. The
// local half either succeeded or the write returned an error.
type Receipt struct {
	SyncErr error
}

// Mirrored reports whether the remote push did not fail.
func (r Receipt) Mirrored() bool { return r.SyncErr == nil }

// Engine coordinates the local store, the remote endpoint and presets.
type Engine struct {
	local      *store.Local
	fetcher    Fetcher
	mirror     remote.Mirror
	presets    *presets.Registry
	normalizer *normalize.Normalizer

	now   func() time.Time
	newID func() string

	loading atomic.Bool
	// serializes local read-modify-write cycles
	writeMu sync.Mutex
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs replaces the id generator for new entries.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an Engine. fetcher and mirror may be nil, in which case local
// storage is the only source and writes are not mirrored.
func New(local *store.Local, fetcher Fetcher, mirror remote.Mirror, registry *presets.Registry, opts ...Option) *Engine {
	e := &Engine{
		local:      local,
		fetcher:    fetcher,
		mirror:     mirror,
		presets:    registry,
		normalizer: normalize.New(),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Loading reports whether a Load is in flight.
func (e *Engine) Loading() bool {
	return e.loading.Load()
}

// Load reads both collections, preferring the remote endpoint and falling
// back to local storage. It returns false without doing anything when
// another Load is still running. The error is non-nil only when the local
// read fails.
func (e *Engine) Load(ctx context.Context) (Snapshot, bool, error) {
	if !e.loading.CompareAndSwap(false, true) {
		return Snapshot{}, false, nil
	}
	defer e.loading.Store(false)

	if e.fetcher != nil {
		snap, err := e.fetcher.Fetch(ctx)
		if err == nil {
			return Snapshot{
				Costs:    e.normalizer.Costs(snap.Costs),
				Payments: e.normalizer.Payments(snap.Payments),
				Source:   SourceRemote,
				LoadedAt: e.now(),
			}, true, nil
		}
		if !errors.Is(err, remote.ErrNotConfigured) {
			log.Printf("Remote sync failed, using local data: %v", err)
		}
	}

	costs, payments, err := e.localEntries(ctx)
	if err != nil {
		return Snapshot{}, true, err
	}
	return Snapshot{Costs: costs, Payments: payments, Source: SourceLocal, LoadedAt: e.now()}, true, nil
}

// AddCost validates in and records a new cost for actor.
func (e *Engine) AddCost(ctx context.Context, in CostInput, actor identity.Identity) (models.CostEntry, Receipt, error) {
	amount, err := parsePositive("amount", in.Amount)
	if err != nil {
		return models.CostEntry{}, Receipt{}, err
	}
	extra, err := parseExtra(in.ExtraCharges)
	if err != nil {
		return models.CostEntry{}, Receipt{}, err
	}

	description := strings.TrimSpace(in.Description)
	cost := models.CostEntry{
		ID:           e.newID(),
		Timestamp:    e.now(),
		Category:     orDefault(in.Category, DefaultCostCategory),
		Description:  orDefault(description, DefaultCostDescription),
		BaseAmount:   amount,
		ExtraCharges: extra,
		RecordedBy:   actor.Name,
	}

	change := remote.AddChange(models.KindCost, cost.ID, cost, actor.Email)
	receipt, err := e.write(ctx, change, func(ctx context.Context) error {
		raw, err := e.local.RawCosts(ctx)
		if err != nil {
			return err
		}
		return e.local.SaveCosts(ctx, append(e.normalizer.Costs(raw), cost))
	})
	if err != nil {
		return models.CostEntry{}, receipt, err
	}

	// Presets are only learned from costs that had a typed description.
	if in.SaveAsPreset && description != "" && e.presets != nil {
		if _, _, err := e.presets.AddIfAbsent(ctx, description, amount, cost.Category); err != nil {
			log.Printf("Error saving preset for cost %s: %v", cost.ID, err)
		}
	}
	return cost, receipt, nil
}

// AddPayment validates in and records a new payment for actor.
func (e *Engine) AddPayment(ctx context.Context, in PaymentInput, actor identity.Identity) (models.PaymentEntry, Receipt, error) {
	amount, err := parsePositive("amount", in.Amount)
	if err != nil {
		return models.PaymentEntry{}, Receipt{}, err
	}

	payment := models.PaymentEntry{
		ID:         e.newID(),
		Timestamp:  e.now(),
		Method:     orDefault(in.Method, DefaultPaymentMethod),
		Amount:     amount,
		Note:       orDefault(in.Note, DefaultPaymentNote),
		RecordedBy: actor.Name,
	}

	change := remote.AddChange(models.KindPayment, payment.ID, payment, actor.Email)
	receipt, err := e.write(ctx, change, func(ctx context.Context) error {
		raw, err := e.local.RawPayments(ctx)
		if err != nil {
			return err
		}
		return e.local.SavePayments(ctx, append(e.normalizer.Payments(raw), payment))
	})
	if err != nil {
		return models.PaymentEntry{}, receipt, err
	}
	return payment, receipt, nil
}

// DeleteEntry removes entry id of kind on behalf of actor. The provider may
// delete anything; the client may delete only payments it recorded itself.
// Rejected deletes write nothing.
func (e *Engine) DeleteEntry(ctx context.Context, id string, kind models.EntryKind, actor identity.Identity) (Receipt, error) {
	if !kind.Valid() {
		return Receipt{}, models.NewValidationError("kind", fmt.Sprintf("unknown entry kind %q", kind))
	}
	if strings.TrimSpace(id) == "" {
		return Receipt{}, models.NewValidationError("id", "id is required")
	}
	if err := e.authorizeDelete(ctx, id, kind, actor); err != nil {
		return Receipt{}, err
	}

	return e.write(ctx, remote.DeleteChange(kind, id), func(ctx context.Context) error {
		if kind == models.KindCost {
			raw, err := e.local.RawCosts(ctx)
			if err != nil {
				return err
			}
			return e.local.SaveCosts(ctx, withoutCost(e.normalizer.Costs(raw), id))
		}
		raw, err := e.local.RawPayments(ctx)
		if err != nil {
			return err
		}
		return e.local.SavePayments(ctx, withoutPayment(e.normalizer.Payments(raw), id))
	})
}

func (e *Engine) authorizeDelete(ctx context.Context, id string, kind models.EntryKind, actor identity.Identity) error {
	switch actor.Role {
	case identity.RoleProvider:
		return nil
	case identity.RoleClient:
		if kind == models.KindCost {
			return &models.AuthorizationError{Actor: actor.Name, Action: "delete cost entries"}
		}
		payment, err := e.findPayment(ctx, id)
		if err != nil {
			return err
		}
		if payment.RecordedBy != actor.Name {
			return &models.AuthorizationError{Actor: actor.Name, Action: "delete payments recorded by " + payment.RecordedBy}
		}
		return nil
	default:
		return &models.AuthorizationError{Actor: actor.Name, Action: "delete entries"}
	}
}

// findPayment looks in local storage first, then on the remote endpoint.
func (e *Engine) findPayment(ctx context.Context, id string) (models.PaymentEntry, error) {
	raw, err := e.local.RawPayments(ctx)
	if err != nil {
		return models.PaymentEntry{}, err
	}
	for _, p := range e.normalizer.Payments(raw) {
		if p.ID == id {
			return p, nil
		}
	}

	if e.fetcher != nil {
		snap, err := e.fetcher.Fetch(ctx)
		if err == nil {
			for _, p := range e.normalizer.Payments(snap.Payments) {
				if p.ID == id {
					return p, nil
				}
			}
		}
	}
	return models.PaymentEntry{}, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
}

// write runs the remote push and the local persist side by side. Only the
// local result decides success; the remote result goes into the Receipt.
func (e *Engine) write(ctx context.Context, change remote.Change, persist func(context.Context) error) (Receipt, error) {
	var receipt Receipt
	var g errgroup.Group

	if e.mirror != nil {
		g.Go(func() error {
			receipt.SyncErr = e.mirror.Push(ctx, change)
			return nil
		})
	}
	g.Go(func() error {
		e.writeMu.Lock()
		defer e.writeMu.Unlock()
		return persist(ctx)
	})

	if err := g.Wait(); err != nil {
		return receipt, fmt.Errorf("save %s %s: %w", strings.ToLower(string(change.Kind)), change.ID, err)
	}
	if receipt.SyncErr != nil {
		log.Printf("Remote sync failed, kept local change: %v", receipt.SyncErr)
	}
	return receipt, nil
}

func (e *Engine) localEntries(ctx context.Context) ([]models.CostEntry, []models.PaymentEntry, error) {
	rawCosts, err := e.local.RawCosts(ctx)
	if err != nil {
		return nil, nil, err
	}
	rawPayments, err := e.local.RawPayments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return e.normalizer.Costs(rawCosts), e.normalizer.Payments(rawPayments), nil
}

func parsePositive(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, models.NewValidationError(field, "enter a valid amount")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, models.NewValidationError(field, "amount must be greater than zero")
	}
	if value > models.MaxAmount {
		return 0, models.NewValidationError(field, "amount is too large")
	}
	return value, nil
}

func parseExtra(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, models.NewValidationError("extra_charges", "enter a valid amount")
	}
	if value < 0 {
		return 0, models.NewValidationError("extra_charges", "extra charges cannot be negative")
	}
	if value > models.MaxAmount {
		return 0, models.NewValidationError("extra_charges", "amount is too large")
	}
	return value, nil
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

func withoutCost(costs []models.CostEntry, id string) []models.CostEntry {
	kept := make([]models.CostEntry, 0, len(costs))
	for _, c := range costs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return kept
}

func withoutPayment(payments []models.PaymentEntry, id string) []models.PaymentEntry {
	kept := make([]models.PaymentEntry, 0, len(payments))
	for _, p := range payments {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}
