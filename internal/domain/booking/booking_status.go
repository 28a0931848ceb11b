package booking

import (
	"fmt"

	"github.com/campusnest/service-housing/internal/platform/domain"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCancelled, StatusCompleted},
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether the booking still holds, or may come to hold, a room unit.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// HoldsUnit reports whether a room unit is reserved for the booking.
func (s BookingStatus) HoldsUnit() bool {
	return s == StatusApproved
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", s))
	}
	return status, nil
}

// ParseRequestedStatus accepts only the statuses a caller may ask for;
// pending is the initial state and cannot be requested.
func ParseRequestedStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return status, nil
	}
	return "", domain.NewValidationError(fmt.Sprintf("invalid status: %s", s))
}
