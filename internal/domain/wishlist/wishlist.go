package wishlist

import (
	"context"
	"time"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// Item is a property a tenant saved for later.
type Item struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	propertyID uuid.UUID
	createdAt  time.Time
}

// NewItem creates a wishlist entry.
func NewItem(tenantID, propertyID uuid.UUID) (*Item, error) {
	if tenantID == uuid.Nil || propertyID == uuid.Nil {
		return nil, domain.NewValidationError("tenant and property are required")
	}
	return &Item{
		id:         uuid.New(),
		tenantID:   tenantID,
		propertyID: propertyID,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id, tenantID, propertyID uuid.UUID, createdAt time.Time) *Item {
	return &Item{id: id, tenantID: tenantID, propertyID: propertyID, createdAt: createdAt}
}

func (i *Item) ID() uuid.UUID         { return i.id }
func (i *Item) TenantID() uuid.UUID   { return i.tenantID }
func (i *Item) PropertyID() uuid.UUID { return i.propertyID }
func (i *Item) CreatedAt() time.Time  { return i.createdAt }

// Repository persists wishlist items, unique per (tenant, property).
type Repository interface {
	Save(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Exists(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error)

	// FindByTenantID returns a tenant's items newest first.
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*Item, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
