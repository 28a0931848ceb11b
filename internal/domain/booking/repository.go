package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByTenantID retrieves a tenant's bookings with pagination, newest first.
	FindByTenantID(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByPropertyIDs retrieves bookings on any of the given properties with pagination.
	FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// HasActiveBooking reports whether the tenant holds a pending or approved
	// booking for the room.
	HasActiveBooking(ctx context.Context, tenantID, roomID uuid.UUID) (bool, error)

	// HasCompletedBooking reports whether the tenant finished a stay at the property.
	HasCompletedBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error)

	// FindActiveByTenantID returns every pending or approved booking of a tenant.
	FindActiveByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// SumRentByStatus returns the total monthly rent of bookings in a status.
	SumRentByStatus(ctx context.Context, status BookingStatus) (int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
