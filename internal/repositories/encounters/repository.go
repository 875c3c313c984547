package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockencrepo -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
)

// Repository defines the interface for encounter storage operations
type Repository interface {
	// Create stores a new encounter
	Create(ctx context.Context, enc *encounter.Encounter) error

	// Get retrieves an encounter by ID
	Get(ctx context.Context, id string) (*encounter.Encounter, error)

	// Update replaces an existing encounter
	Update(ctx context.Context, enc *encounter.Encounter) error

	// Delete removes an encounter
	Delete(ctx context.Context, id string) error

	// ListByRegion retrieves all encounters fought over a campaign region
	ListByRegion(ctx context.Context, regionID string) ([]*encounter.Encounter, error)

	// GetActiveByRegion retrieves the unfinished encounter for a region, or nil
	GetActiveByRegion(ctx context.Context, regionID string) (*encounter.Encounter, error)
}
