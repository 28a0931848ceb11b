package events

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies this service in emitted CloudEvents.
const Source = "service-housing"

// Topics.
const (
	TopicBookingEvents   = "housing.booking.events"
	TopicPropertyEvents  = "housing.property.events"
	TopicComplaintEvents = "housing.complaint.events"
	TopicUserEvents      = "identity.user.events"
)

// Event types.
const (
	BookingRequested = "housing.booking.requested"
	BookingApproved  = "housing.booking.approved"
	BookingRejected  = "housing.booking.rejected"
	BookingCancelled = "housing.booking.cancelled"
	BookingCompleted = "housing.booking.completed"

	PropertyCreated  = "housing.property.created"
	PropertyApproved = "housing.property.approved"
	PropertyRejected = "housing.property.rejected"
	PropertyDeleted  = "housing.property.deleted"
	PropertyReviewed = "housing.property.reviewed"

	ComplaintFiled         = "housing.complaint.filed"
	ComplaintStatusChanged = "housing.complaint.status_changed"

	UserDeleted = "identity.user.deleted"
)

// BookingRequestedEvent is emitted when a tenant creates a booking.
type BookingRequestedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	PropertyID      uuid.UUID `json:"property_id"`
	RoomID          uuid.UUID `json:"room_id"`
	MonthlyRent     int64     `json:"monthly_rent"`
	SecurityDeposit int64     `json:"security_deposit"`
	StartDate       time.Time `json:"start_date"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted after every persisted status transition.
// RoomAvailable is set when the transition moved the room counter.
type BookingStatusChangedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	PropertyID      uuid.UUID `json:"property_id"`
	RoomID          uuid.UUID `json:"room_id"`
	FromStatus      string    `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	ChangedBy       uuid.UUID `json:"changed_by"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	RoomAvailable   *int      `json:"room_available,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// PropertyEvent covers listing creation, moderation and deletion.
type PropertyEvent struct {
	PropertyID uuid.UUID `json:"property_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	ActorID    uuid.UUID `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PropertyReviewedEvent is emitted when a tenant posts a review.
type PropertyReviewedEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	PropertyID uuid.UUID `json:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ComplaintEvent covers filing and admin status changes.
type ComplaintEvent struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	Status      string    `json:"status"`
	ActorID     uuid.UUID `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// UserDeletedEvent is consumed from the identity service.
type UserDeletedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusEventType maps a booking status to its event type.
func BookingStatusEventType(status string) string {
	switch status {
	case "approved":
		return BookingApproved
	case "rejected":
		return BookingRejected
	case "cancelled":
		return BookingCancelled
	case "completed":
		return BookingCompleted
	}
	return ""
}
