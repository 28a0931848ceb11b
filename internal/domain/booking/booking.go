package booking

import (
	"strings"
	"time"

	"github.com/campusnest/service-housing/internal/domain/room"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// Booking is the aggregate root for a tenant's claim against one room.
type Booking struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	propertyID uuid.UUID
	roomID     uuid.UUID
	status     BookingStatus

	// Snapshotted from the room at creation; later price edits do not apply.
	monthlyRent     int64
	securityDeposit int64

	startDate       time.Time
	endDate         *time.Time
	rejectionReason string
	decidedAt       *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending booking for the given room, snapshotting its pricing.
func NewBooking(tenantID uuid.UUID, r *room.Room, startDate time.Time, endDate *time.Time) (*Booking, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant ID is required")
	}
	if r == nil {
		return nil, domain.NewValidationError("room is required")
	}
	if startDate.IsZero() {
		return nil, domain.NewValidationError("start date is required")
	}
	if endDate != nil && !endDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		tenantID:        tenantID,
		propertyID:      r.PropertyID(),
		roomID:          r.ID(),
		status:          StatusPending,
		monthlyRent:     r.MonthlyRent(),
		securityDeposit: r.SecurityDeposit(),
		startDate:       startDate.UTC(),
		endDate:         endDate,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, tenantID, propertyID, roomID uuid.UUID,
	status BookingStatus,
	monthlyRent, securityDeposit int64,
	startDate time.Time,
	endDate *time.Time,
	rejectionReason string,
	decidedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		tenantID:        tenantID,
		propertyID:      propertyID,
		roomID:          roomID,
		status:          status,
		monthlyRent:     monthlyRent,
		securityDeposit: securityDeposit,
		startDate:       startDate,
		endDate:         endDate,
		rejectionReason: rejectionReason,
		decidedAt:       decidedAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// TenantID returns the booking tenant's user ID.
func (b *Booking) TenantID() uuid.UUID { return b.tenantID }

// PropertyID returns the booked property.
func (b *Booking) PropertyID() uuid.UUID { return b.propertyID }

// RoomID returns the booked room.
func (b *Booking) RoomID() uuid.UUID { return b.roomID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// MonthlyRent returns the rent snapshot in minor currency units.
func (b *Booking) MonthlyRent() int64 { return b.monthlyRent }

// SecurityDeposit returns the deposit snapshot in minor currency units.
func (b *Booking) SecurityDeposit() int64 { return b.securityDeposit }

func (b *Booking) StartDate() time.Time    { return b.startDate }
func (b *Booking) EndDate() *time.Time     { return b.endDate }
func (b *Booking) RejectionReason() string { return b.rejectionReason }
func (b *Booking) DecidedAt() *time.Time   { return b.decidedAt }
func (b *Booking) Version() int64          { return b.version }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

// IsTenant reports whether id is the booking's tenant.
func (b *Booking) IsTenant(id uuid.UUID) bool { return b.tenantID == id }

// --- Behavior ---

// Approve transitions the booking from pending to approved. The caller must
// have reserved a room unit first.
func (b *Booking) Approve() error {
	return b.transition(StatusApproved)
}

// Reject transitions the booking from pending to rejected.
func (b *Booking) Reject(reason string) error {
	if err := b.transition(StatusRejected); err != nil {
		return err
	}
	b.rejectionReason = strings.TrimSpace(reason)
	return nil
}

// Cancel withdraws a pending or approved booking. It returns true when the
// booking held a room unit that must be released.
func (b *Booking) Cancel() (releasesUnit bool, err error) {
	held := b.status.HoldsUnit()
	if err := b.transition(StatusCancelled); err != nil {
		return false, err
	}
	return held, nil
}

// Complete transitions an approved booking to completed.
func (b *Booking) Complete() error {
	return b.transition(StatusCompleted)
}

func (b *Booking) transition(to BookingStatus) error {
	if !b.status.CanTransitionTo(to) {
		return domain.NewInvalidStateError(string(b.status), string(to))
	}
	now := time.Now().UTC()
	b.status = to
	b.decidedAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
