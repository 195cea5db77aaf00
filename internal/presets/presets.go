// Package presets manages quick-bill templates. Presets are local only and
// are never mirrored to the remote endpoint.
package presets

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"sharedledger/internal/models"
	"sharedledger/internal/store"

	"github.com/google/uuid"
)

// DefaultCategory is used for presets created without a category.
const DefaultCategory = "Design"

// Registry reads and rewrites the whole preset collection on every change.
type Registry struct {
	local *store.Local
	mu    sync.Mutex
	newID func() string
}

// New creates a Registry over local.
func New(local *store.Local) *Registry {
	return &Registry{local: local, newID: uuid.NewString}
}

// List returns all presets, seeding the defaults when none were saved.
func (r *Registry) List(ctx context.Context) ([]models.Preset, error) {
	return r.local.Presets(ctx)
}

// Add appends a new preset.
func (r *Registry) Add(ctx context.Context, label string, amount float64, category string) (models.Preset, error) {
	label, err := validate(label, amount)
	if err != nil {
		return models.Preset{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.local.Presets(ctx)
	if err != nil {
		return models.Preset{}, err
	}
	preset := r.build(label, amount, category)
	if err := r.local.SavePresets(ctx, append(list, preset)); err != nil {
		return models.Preset{}, err
	}
	return preset, nil
}

// AddIfAbsent appends a preset unless one with the same label (ignoring
// case) and the same amount exists. The returned bool is true when a preset
// was created.
func (r *Registry) AddIfAbsent(ctx context.Context, label string, amount float64, category string) (models.Preset, bool, error) {
	label, err := validate(label, amount)
	if err != nil {
		return models.Preset{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.local.Presets(ctx)
	if err != nil {
		return models.Preset{}, false, err
	}
	for _, p := range list {
		if Matches(p, label, amount) {
			return p, false, nil
		}
	}
	preset := r.build(label, amount, category)
	if err := r.local.SavePresets(ctx, append(list, preset)); err != nil {
		return models.Preset{}, false, err
	}
	return preset, true, nil
}

// Update changes the label and amount of preset id.
func (r *Registry) Update(ctx context.Context, id, label string, amount float64) (models.Preset, error) {
	label, err := validate(label, amount)
	if err != nil {
		return models.Preset{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.local.Presets(ctx)
	if err != nil {
		return models.Preset{}, err
	}
	for i, p := range list {
		if p.ID != id {
			continue
		}
		p.Label = label
		p.Amount = amount
		list[i] = p
		if err := r.local.SavePresets(ctx, list); err != nil {
			return models.Preset{}, err
		}
		return p, nil
	}
	return models.Preset{}, fmt.Errorf("preset %s: %w", id, models.ErrNotFound)
}

// Delete removes preset id.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.local.Presets(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Preset, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("preset %s: %w", id, models.ErrNotFound)
	}
	return r.local.SavePresets(ctx, kept)
}

// Matches reports whether p duplicates (label, amount).
func Matches(p models.Preset, label string, amount float64) bool {
	return strings.EqualFold(strings.TrimSpace(p.Label), strings.TrimSpace(label)) && p.Amount == amount
}

func (r *Registry) build(label string, amount float64, category string) models.Preset {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return models.Preset{ID: r.newID(), Label: label, Amount: amount, Category: category}
}

func validate(label string, amount float64) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", models.NewValidationError("label", "label cannot be empty")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", models.NewValidationError("amount", "amount must be greater than zero")
	}
	return label, nil
}
