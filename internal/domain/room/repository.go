package room

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoAvailability is returned by DecrementAvailable when the room had no
// free unit at the moment of the update.
var ErrNoAvailability = errors.New("no rooms available")

// RoomRepository defines persistence for rooms. Availability may only be
// changed through DecrementAvailable and IncrementAvailable, which must be
// single atomic statements in the storage engine.
type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*Room, error)

	// FindByPropertyIDs returns rooms grouped by property.
	FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) (map[uuid.UUID][]*Room, error)

	// PropertyIDsWithRentBetween returns properties having a room whose rent
	// lies in [minRent, maxRent]; a nil bound is open.
	PropertyIDsWithRentBetween(ctx context.Context, minRent, maxRent *int64) ([]uuid.UUID, error)

	Save(ctx context.Context, room *Room) error

	// ReplaceForProperty deletes every room of the property and stores rooms
	// in their place.
	ReplaceForProperty(ctx context.Context, propertyID uuid.UUID, rooms []*Room) error

	DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error

	// DecrementAvailable takes one unit if available_count > 0 and returns the
	// updated room; ErrNoAvailability when the predicate did not hold.
	DecrementAvailable(ctx context.Context, id uuid.UUID) (*Room, error)

	// IncrementAvailable releases one unit unconditionally.
	IncrementAvailable(ctx context.Context, id uuid.UUID) error
}
