package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"sharedledger/internal/identity"
	"sharedledger/internal/models"
	"sharedledger/internal/presets"
	"sharedledger/internal/remote"
	"sharedledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	provider = identity.Identity{Role: identity.RoleProvider, Name: "Sanjaya", Email: "sanjaya@designer.test"}
	client   = identity.Identity{Role: identity.RoleClient, Name: "Ravi", Email: "ravi@client.test"}
)

type stubFetcher struct {
	snap    remote.Snapshot
	err     error
	entered chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (f *stubFetcher) Fetch(ctx context.Context) (remote.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.snap, f.err
}

type recordingMirror struct {
	mu      sync.Mutex
	changes []remote.Change
	err     error
}

func (m *recordingMirror) Push(_ context.Context, change remote.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, change)
	return m.err
}

func (m *recordingMirror) recorded() []remote.Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]remote.Change(nil), m.changes...)
}

type testEnv struct {
	engine   *Engine
	local    *store.Local
	registry *presets.Registry
	mirror   *recordingMirror
}

func newTestEnv(t *testing.T, fetcher Fetcher) *testEnv {
	t.Helper()
	local := store.NewLocal(store.NewMemoryKV())
	registry := presets.New(local)
	mirror := &recordingMirror{}

	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	tick := 0
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	seq := 0
	ids := func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	engine := New(local, fetcher, mirror, registry, WithClock(clock), WithIDs(ids))
	return &testEnv{engine: engine, local: local, registry: registry, mirror: mirror}
}

func (env *testEnv) localSnapshot(t *testing.T) Snapshot {
	t.Helper()
	costs, payments, err := env.engine.localEntries(context.Background())
	require.NoError(t, err)
	return Snapshot{Costs: costs, Payments: payments}
}

func TestAddCost(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist the exact amount for valid inputs", func(t *testing.T) {
		for _, amount := range []string{"0.01", "1", "1500", "2499.99", " 75.5 "} {
			env := newTestEnv(t, nil)

			cost, receipt, err := env.engine.AddCost(ctx, CostInput{Amount: amount, Description: "Logo"}, provider)

			require.NoError(t, err, amount)
			assert.True(t, receipt.Mirrored())
			stored := env.localSnapshot(t).Costs
			require.Len(t, stored, 1)
			assert.Equal(t, cost.ID, stored[0].ID)
			assert.Equal(t, cost.BaseAmount, stored[0].BaseAmount)
			assert.True(t, cost.Timestamp.Equal(stored[0].Timestamp))
		}
	})

	t.Run("should reject non-positive and non-numeric amounts without writing", func(t *testing.T) {
		for _, amount := range []string{"0", "-10", "abc", "", "NaN", "Inf", "12abc"} {
			env := newTestEnv(t, nil)

			_, _, err := env.engine.AddCost(ctx, CostInput{Amount: amount}, provider)

			assert.True(t, models.IsValidation(err), "amount %q should be rejected", amount)
			assert.Empty(t, env.localSnapshot(t).Costs)
			assert.Empty(t, env.mirror.recorded())
		}
	})

	t.Run("should reject negative extra charges", func(t *testing.T) {
		env := newTestEnv(t, nil)

		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "100", ExtraCharges: "-1"}, provider)

		assert.True(t, models.IsValidation(err))
		assert.Empty(t, env.localSnapshot(t).Costs)
	})

	t.Run("should reject amounts that would overflow the totals", func(t *testing.T) {
		for _, input := range []CostInput{
			{Amount: "1e308"},
			{Amount: "1000000000001"},
			{Amount: "100", ExtraCharges: "1e308"},
		} {
			env := newTestEnv(t, nil)

			_, _, err := env.engine.AddCost(ctx, input, provider)

			assert.True(t, models.IsValidation(err), "%+v should be rejected", input)
			assert.Empty(t, env.localSnapshot(t).Costs)
			assert.Empty(t, env.mirror.recorded())
		}
	})

	t.Run("should accept amounts at the cap", func(t *testing.T) {
		env := newTestEnv(t, nil)

		cost, _, err := env.engine.AddCost(ctx, CostInput{Amount: "1000000000000", ExtraCharges: "1000000000000"}, provider)

		require.NoError(t, err)
		_, err = json.Marshal(cost)
		assert.NoError(t, err)
	})

	t.Run("should fill defaults and attribute the entry", func(t *testing.T) {
		env := newTestEnv(t, nil)

		cost, _, err := env.engine.AddCost(ctx, CostInput{Amount: "1000", ExtraCharges: "200"}, provider)

		require.NoError(t, err)
		assert.Equal(t, "id-1", cost.ID)
		assert.Equal(t, DefaultCostDescription, cost.Description)
		assert.Equal(t, DefaultCostCategory, cost.Category)
		assert.Equal(t, 200.0, cost.ExtraCharges)
		assert.Equal(t, "Sanjaya", cost.RecordedBy)
		assert.False(t, cost.Timestamp.IsZero())
	})

	t.Run("should mirror the new entry with the actor email", func(t *testing.T) {
		env := newTestEnv(t, nil)

		cost, _, err := env.engine.AddCost(ctx, CostInput{Amount: "300", Description: "Retouch"}, provider)
		require.NoError(t, err)

		changes := env.mirror.recorded()
		require.Len(t, changes, 1)
		assert.Equal(t, remote.ActionAdd, changes[0].Action)
		assert.Equal(t, models.KindCost, changes[0].Kind)
		assert.Equal(t, cost.ID, changes[0].ID)
		assert.Equal(t, provider.Email, changes[0].UserEmail)
		assert.Equal(t, cost, changes[0].Entry)
	})

	t.Run("should keep the local write when the remote push fails", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.mirror.err = &remote.SyncError{Action: remote.ActionAdd, Err: errors.New("timeout")}

		_, receipt, err := env.engine.AddCost(ctx, CostInput{Amount: "300"}, provider)

		require.NoError(t, err)
		assert.False(t, receipt.Mirrored())
		assert.Len(t, env.localSnapshot(t).Costs, 1)
	})

	t.Run("should append to existing local costs", func(t *testing.T) {
		env := newTestEnv(t, nil)

		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "1"}, provider)
		require.NoError(t, err)
		_, _, err = env.engine.AddCost(ctx, CostInput{Amount: "2"}, provider)
		require.NoError(t, err)

		assert.Len(t, env.localSnapshot(t).Costs, 2)
	})
}

func TestAddCostSavesPresets(t *testing.T) {
	ctx := context.Background()

	seeded := func(t *testing.T) *testEnv {
		env := newTestEnv(t, nil)
		require.NoError(t, env.local.SavePresets(ctx, []models.Preset{{ID: "p1", Label: "logo", Amount: 1500, Category: "Branding"}}))
		return env
	}

	t.Run("should not duplicate a matching preset", func(t *testing.T) {
		env := seeded(t)

		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "1500", Description: "Logo", SaveAsPreset: true}, provider)
		require.NoError(t, err)

		list, err := env.registry.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("should create a preset for a different amount", func(t *testing.T) {
		env := seeded(t)

		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "1600", Description: "Logo", SaveAsPreset: true}, provider)
		require.NoError(t, err)

		list, err := env.registry.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Logo", list[1].Label)
		assert.Equal(t, 1600.0, list[1].Amount)
	})

	t.Run("should skip presets when no description was typed", func(t *testing.T) {
		env := seeded(t)

		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "999", SaveAsPreset: true}, provider)
		require.NoError(t, err)

		list, err := env.registry.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("should skip presets unless requested", func(t *testing.T) {
		env := seeded(t)

		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "999", Description: "Flyer"}, provider)
		require.NoError(t, err)

		list, err := env.registry.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestAddPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist a payment with defaults", func(t *testing.T) {
		env := newTestEnv(t, nil)

		payment, _, err := env.engine.AddPayment(ctx, PaymentInput{Amount: "500"}, client)

		require.NoError(t, err)
		assert.Equal(t, 500.0, payment.Amount)
		assert.Equal(t, DefaultPaymentNote, payment.Note)
		assert.Equal(t, "Sampath Bank", payment.Method)
		assert.Equal(t, "Ravi", payment.RecordedBy)
		stored := env.localSnapshot(t).Payments
		require.Len(t, stored, 1)
		assert.Equal(t, payment.ID, stored[0].ID)
		assert.Equal(t, payment.Note, stored[0].Note)

		changes := env.mirror.recorded()
		require.Len(t, changes, 1)
		assert.Equal(t, models.KindPayment, changes[0].Kind)
		assert.Equal(t, client.Email, changes[0].UserEmail)
	})

	t.Run("should keep custom method and note", func(t *testing.T) {
		env := newTestEnv(t, nil)

		payment, _, err := env.engine.AddPayment(ctx, PaymentInput{Amount: "20", Method: models.MethodCash, Note: "Tip"}, client)

		require.NoError(t, err)
		assert.Equal(t, models.MethodCash, payment.Method)
		assert.Equal(t, "Tip", payment.Note)
	})

	t.Run("should reject invalid amounts", func(t *testing.T) {
		env := newTestEnv(t, nil)

		for _, amount := range []string{"-1", "1e308"} {
			_, _, err := env.engine.AddPayment(ctx, PaymentInput{Amount: amount}, client)

			assert.True(t, models.IsValidation(err), amount)
		}
		assert.Empty(t, env.localSnapshot(t).Payments)
		assert.Empty(t, env.mirror.recorded())
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("should prefer the remote endpoint and normalize its records", func(t *testing.T) {
		fetcher := &stubFetcher{snap: remote.Snapshot{
			Costs:    json.RawMessage(`[{"id":"c1","amount":"Rs. 1,200.50","date":"2025-01-01T00:00:00Z"}]`),
			Payments: json.RawMessage(`[{"id":"p1","amount":"500"}]`),
		}}
		env := newTestEnv(t, fetcher)
		_, _, err := env.engine.AddPayment(ctx, PaymentInput{Amount: "1"}, client)
		require.NoError(t, err)

		snap, started, err := env.engine.Load(ctx)

		require.NoError(t, err)
		assert.True(t, started)
		assert.Equal(t, SourceRemote, snap.Source)
		require.Len(t, snap.Costs, 1)
		assert.Equal(t, 1200.50, snap.Costs[0].BaseAmount)
		require.Len(t, snap.Payments, 1)
		assert.Equal(t, "p1", snap.Payments[0].ID)
	})

	t.Run("should fall back to local data when the remote fails", func(t *testing.T) {
		fetcher := &stubFetcher{err: fmt.Errorf("%w: status 500", remote.ErrUnavailable)}
		env := newTestEnv(t, fetcher)
		_, _, err := env.engine.AddCost(ctx, CostInput{Amount: "10"}, provider)
		require.NoError(t, err)

		snap, started, err := env.engine.Load(ctx)

		require.NoError(t, err)
		assert.True(t, started)
		assert.Equal(t, SourceLocal, snap.Source)
		assert.Len(t, snap.Costs, 1)
		assert.NotNil(t, snap.Payments)
	})

	t.Run("should use local data when no remote is configured", func(t *testing.T) {
		env := newTestEnv(t, nil)

		snap, started, err := env.engine.Load(ctx)

		require.NoError(t, err)
		assert.True(t, started)
		assert.Equal(t, SourceLocal, snap.Source)
		assert.Empty(t, snap.Costs)
	})

	t.Run("should normalize legacy local records", func(t *testing.T) {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Put(ctx, store.KeyCosts, []byte(`[{"id":"old","amount":"1,000","desc":"Flyer"}]`)))
		local := store.NewLocal(kv)
		engine := New(local, nil, nil, presets.New(local))

		snap, _, err := engine.Load(ctx)

		require.NoError(t, err)
		require.Len(t, snap.Costs, 1)
		assert.Equal(t, 1000.0, snap.Costs[0].BaseAmount)
		assert.Equal(t, "Flyer", snap.Costs[0].Description)
	})

	t.Run("should drop a load while another is in flight", func(t *testing.T) {
		fetcher := &stubFetcher{
			snap:    remote.Snapshot{Costs: json.RawMessage(`[]`), Payments: json.RawMessage(`[]`)},
			entered: make(chan struct{}),
			release: make(chan struct{}),
		}
		env := newTestEnv(t, fetcher)

		done := make(chan bool)
		go func() {
			_, started, _ := env.engine.Load(ctx)
			done <- started
		}()
		<-fetcher.entered

		assert.True(t, env.engine.Loading())
		_, started, err := env.engine.Load(ctx)
		require.NoError(t, err)
		assert.False(t, started)

		close(fetcher.release)
		assert.True(t, <-done)
		assert.False(t, env.engine.Loading())
		assert.Equal(t, 1, fetcher.calls)
	})
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, fetcher Fetcher) (*testEnv, models.CostEntry, models.PaymentEntry, models.PaymentEntry) {
		env := newTestEnv(t, fetcher)
		clientAsCostAuthor := identity.Identity{Role: identity.RoleProvider, Name: client.Name}
		cost, _, err := env.engine.AddCost(ctx, CostInput{Amount: "1000"}, clientAsCostAuthor)
		require.NoError(t, err)
		own, _, err := env.engine.AddPayment(ctx, PaymentInput{Amount: "100"}, client)
		require.NoError(t, err)
		others, _, err := env.engine.AddPayment(ctx, PaymentInput{Amount: "200"}, provider)
		require.NoError(t, err)
		env.mirror.changes = nil
		return env, cost, own, others
	}

	t.Run("client cannot delete costs even when recorded under their name", func(t *testing.T) {
		env, cost, _, _ := setup(t, nil)
		require.Equal(t, client.Name, cost.RecordedBy)

		_, err := env.engine.DeleteEntry(ctx, cost.ID, models.KindCost, client)

		assert.True(t, models.IsAuthorization(err))
		assert.Len(t, env.localSnapshot(t).Costs, 1)
		assert.Empty(t, env.mirror.recorded())
	})

	t.Run("client can delete their own payment", func(t *testing.T) {
		env, _, own, _ := setup(t, nil)

		receipt, err := env.engine.DeleteEntry(ctx, own.ID, models.KindPayment, client)

		require.NoError(t, err)
		assert.True(t, receipt.Mirrored())
		payments := env.localSnapshot(t).Payments
		require.Len(t, payments, 1)
		assert.NotEqual(t, own.ID, payments[0].ID)

		changes := env.mirror.recorded()
		require.Len(t, changes, 1)
		assert.Equal(t, remote.DeleteChange(models.KindPayment, own.ID), changes[0])
	})

	t.Run("client cannot delete another party's payment", func(t *testing.T) {
		env, _, _, others := setup(t, nil)

		_, err := env.engine.DeleteEntry(ctx, others.ID, models.KindPayment, client)

		assert.True(t, models.IsAuthorization(err))
		assert.Len(t, env.localSnapshot(t).Payments, 2)
		assert.Empty(t, env.mirror.recorded())
	})

	t.Run("client deleting an unknown payment gets not found", func(t *testing.T) {
		env, _, _, _ := setup(t, nil)

		_, err := env.engine.DeleteEntry(ctx, "missing", models.KindPayment, client)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("client ownership is checked against remote-only payments", func(t *testing.T) {
		fetcher := &stubFetcher{snap: remote.Snapshot{
			Payments: json.RawMessage(`[{"id":"remote-1","amount":50,"addedBy":"Ravi"}]`),
		}}
		env, _, _, _ := setup(t, fetcher)

		_, err := env.engine.DeleteEntry(ctx, "remote-1", models.KindPayment, client)

		require.NoError(t, err)
		changes := env.mirror.recorded()
		require.Len(t, changes, 1)
		assert.Equal(t, "remote-1", changes[0].ID)
	})

	t.Run("provider can delete any entry of either kind", func(t *testing.T) {
		env, cost, own, others := setup(t, nil)

		_, err := env.engine.DeleteEntry(ctx, cost.ID, models.KindCost, provider)
		require.NoError(t, err)
		_, err = env.engine.DeleteEntry(ctx, own.ID, models.KindPayment, provider)
		require.NoError(t, err)
		_, err = env.engine.DeleteEntry(ctx, others.ID, models.KindPayment, provider)
		require.NoError(t, err)

		snap := env.localSnapshot(t)
		assert.Empty(t, snap.Costs)
		assert.Empty(t, snap.Payments)
		assert.Len(t, env.mirror.recorded(), 3)
	})

	t.Run("identities without a role cannot delete", func(t *testing.T) {
		env, cost, _, _ := setup(t, nil)

		_, err := env.engine.DeleteEntry(ctx, cost.ID, models.KindCost, identity.Identity{Name: "Someone"})

		assert.True(t, models.IsAuthorization(err))
	})

	t.Run("unknown kinds are rejected", func(t *testing.T) {
		env, cost, _, _ := setup(t, nil)

		_, err := env.engine.DeleteEntry(ctx, cost.ID, models.EntryKind("REFUND"), provider)

		assert.True(t, models.IsValidation(err))
		assert.Len(t, env.localSnapshot(t).Costs, 1)
	})
}
