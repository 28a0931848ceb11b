package property

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a property listing query. Zero values mean "no filter".
type ListFilter struct {
	OwnerID        *uuid.UUID
	Status         *PropertyStatus
	NearestCollege string
	MaxDistanceKm  *float64
	Facilities     []string
	// IDs restricts results to these properties when non-nil.
	IDs []uuid.UUID
}

// PropertyRepository defines the persistence contract for listings.
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// List returns one page of matching properties, newest first.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Property, int64, error)

	// IDsByOwner returns all property IDs belonging to an owner.
	IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)

	Save(ctx context.Context, property *Property) error

	Update(ctx context.Context, property *Property) error

	Delete(ctx context.Context, id uuid.UUID) error
}
