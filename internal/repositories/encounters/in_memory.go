package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

type inMemoryRepository struct {
	mu         sync.RWMutex
	encounters map[string]*encounter.Encounter
	byRegion   map[string][]string // regionID -> encounter IDs
}

// NewInMemoryRepository creates a new in-memory encounter repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		encounters: make(map[string]*encounter.Encounter),
		byRegion:   make(map[string][]string),
	}
}

// Create stores a new encounter
func (r *inMemoryRepository) Create(_ context.Context, enc *encounter.Encounter) error {
	if enc == nil || enc.ID == "" {
		return apperrors.InvalidArgument("encounter with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[enc.ID]; exists {
		return apperrors.AlreadyExistsf("encounter with ID %s already exists", enc.ID)
	}

	r.encounters[enc.ID] = enc
	if enc.RegionID != "" {
		r.byRegion[enc.RegionID] = append(r.byRegion[enc.RegionID], enc.ID)
	}

	return nil
}

// Get retrieves an encounter by ID
func (r *inMemoryRepository) Get(_ context.Context, id string) (*encounter.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, exists := r.encounters[id]
	if !exists {
		return nil, apperrors.NotFoundf("encounter not found: %s", id)
	}

	return enc, nil
}

// Update replaces an existing encounter
func (r *inMemoryRepository) Update(_ context.Context, enc *encounter.Encounter) error {
	if enc == nil {
		return apperrors.InvalidArgument("encounter is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[enc.ID]; !exists {
		return apperrors.NotFoundf("encounter not found: %s", enc.ID)
	}

	r.encounters[enc.ID] = enc
	return nil
}

// Delete removes an encounter
func (r *inMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	enc, exists := r.encounters[id]
	if !exists {
		return apperrors.NotFoundf("encounter not found: %s", id)
	}

	delete(r.encounters, id)

	regionEncounters := r.byRegion[enc.RegionID]
	for i, eid := range regionEncounters {
		if eid == id {
			r.byRegion[enc.RegionID] = append(regionEncounters[:i], regionEncounters[i+1:]...)
			break
		}
	}

	return nil
}

// ListByRegion retrieves all encounters for a region in creation order
func (r *inMemoryRepository) ListByRegion(_ context.Context, regionID string) ([]*encounter.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byRegion[regionID]
	out := make([]*encounter.Encounter, 0, len(ids))
	for _, id := range ids {
		if enc, exists := r.encounters[id]; exists {
			out = append(out, enc)
		}
	}

	return out, nil
}

// GetActiveByRegion retrieves the active encounter for a region
func (r *inMemoryRepository) GetActiveByRegion(ctx context.Context, regionID string) (*encounter.Encounter, error) {
	list, err := r.ListByRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	return firstActive(list), nil
}

func firstActive(list []*encounter.Encounter) *encounter.Encounter {
	for _, enc := range list {
		if enc.IsActive() {
			return enc
		}
	}
	return nil
}
