package room

import (
	"fmt"
	"time"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// RoomType distinguishes single-occupancy rooms from shared ones.
type RoomType string

const (
	RoomTypeSingle  RoomType = "single"
	RoomTypeSharing RoomType = "sharing"
)

// IsValid returns true if the room type is recognized.
func (t RoomType) IsValid() bool {
	return t == RoomTypeSingle || t == RoomTypeSharing
}

// Room is a bookable unit type within a property. Its available count is the
// shared counter that booking approvals draw down.
type Room struct {
	id              uuid.UUID
	propertyID      uuid.UUID
	roomType        RoomType
	capacity        int
	availableCount  int
	monthlyRent     int64
	securityDeposit int64
	rules           []string
	createdAt       time.Time
	updatedAt       time.Time
}

// Spec is the owner-supplied description of a room.
type Spec struct {
	RoomType        RoomType
	Capacity        int
	AvailableCount  int
	MonthlyRent     int64
	SecurityDeposit int64
	Rules           []string
}

// Validate checks the capacity and pricing invariants.
func (s Spec) Validate() error {
	if !s.RoomType.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid room type: %s", s.RoomType))
	}
	if s.Capacity < 1 {
		return domain.NewValidationError("capacity must be at least 1")
	}
	if s.AvailableCount < 0 {
		return domain.NewValidationError("available count cannot be negative")
	}
	if s.AvailableCount > s.Capacity {
		return domain.NewValidationError("available count cannot exceed capacity")
	}
	if s.MonthlyRent < 0 {
		return domain.NewValidationError("monthly rent cannot be negative")
	}
	if s.SecurityDeposit < 0 {
		return domain.NewValidationError("security deposit cannot be negative")
	}
	return nil
}

// NewRoom creates a validated room for the given property.
func NewRoom(propertyID uuid.UUID, spec Spec) (*Room, error) {
	if propertyID == uuid.Nil {
		return nil, domain.NewValidationError("property ID is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	rules := spec.Rules
	if rules == nil {
		rules = []string{}
	}

	now := time.Now().UTC()
	return &Room{
		id:              uuid.New(),
		propertyID:      propertyID,
		roomType:        spec.RoomType,
		capacity:        spec.Capacity,
		availableCount:  spec.AvailableCount,
		monthlyRent:     spec.MonthlyRent,
		securityDeposit: spec.SecurityDeposit,
		rules:           rules,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(
	id, propertyID uuid.UUID,
	roomType RoomType,
	capacity, availableCount int,
	monthlyRent, securityDeposit int64,
	rules []string,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:              id,
		propertyID:      propertyID,
		roomType:        roomType,
		capacity:        capacity,
		availableCount:  availableCount,
		monthlyRent:     monthlyRent,
		securityDeposit: securityDeposit,
		rules:           rules,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r *Room) ID() uuid.UUID          { return r.id }
func (r *Room) PropertyID() uuid.UUID  { return r.propertyID }
func (r *Room) RoomType() RoomType     { return r.roomType }
func (r *Room) Capacity() int          { return r.capacity }
func (r *Room) AvailableCount() int    { return r.availableCount }
func (r *Room) MonthlyRent() int64     { return r.monthlyRent }
func (r *Room) SecurityDeposit() int64 { return r.securityDeposit }
func (r *Room) Rules() []string        { return r.rules }
func (r *Room) CreatedAt() time.Time   { return r.createdAt }
func (r *Room) UpdatedAt() time.Time   { return r.updatedAt }

// BelongsTo reports whether the room is part of the given property.
func (r *Room) BelongsTo(propertyID uuid.UUID) bool {
	return r.propertyID == propertyID
}

// HasAvailability reports whether at least one unit is free.
func (r *Room) HasAvailability() bool {
	return r.availableCount > 0
}
