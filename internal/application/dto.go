package application

import (
	"time"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	complaintDomain "github.com/campusnest/service-housing/internal/domain/complaint"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	reviewDomain "github.com/campusnest/service-housing/internal/domain/review"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	wishlistDomain "github.com/campusnest/service-housing/internal/domain/wishlist"
	"github.com/google/uuid"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	PropertyID      uuid.UUID  `json:"property_id"`
	RoomID          uuid.UUID  `json:"room_id"`
	Status          string     `json:"status"`
	MonthlyRent     int64      `json:"monthly_rent"`
	SecurityDeposit int64      `json:"security_deposit"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	RoomType        string    `json:"room_type"`
	Capacity        int       `json:"capacity"`
	AvailableCount  int       `json:"available_count"`
	MonthlyRent     int64     `json:"monthly_rent"`
	SecurityDeposit int64     `json:"security_deposit"`
	Rules           []string  `json:"rules"`
}

// PropertyDTO is the response representation of a listing with its rooms.
type PropertyDTO struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	Name                string    `json:"name"`
	NearestCollege      string    `json:"nearest_college"`
	DistanceFromCollege float64   `json:"distance_from_college"`
	Facilities          []string  `json:"facilities"`
	Images              []string  `json:"images"`
	Status              string    `json:"status"`
	RejectionReason     string    `json:"rejection_reason,omitempty"`
	Rooms               []RoomDTO `json:"rooms"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PropertyDetailDTO adds bookability to a property; non-approved listings are
// still returned but flagged unavailable.
type PropertyDetailDTO struct {
	PropertyDTO
	Available bool `json:"available"`
}

// AuditLogDTO is the response representation of an audit record.
type AuditLogDTO struct {
	ID         uuid.UUID      `json:"id"`
	AdminID    uuid.UUID      `json:"admin_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID *uuid.UUID     `json:"resource_id,omitempty"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// RoomInput is an owner-supplied room description.
type RoomInput struct {
	RoomType        string   `json:"room_type" binding:"required"`
	Capacity        int      `json:"capacity" binding:"required"`
	AvailableCount  *int     `json:"available_count"`
	MonthlyRent     int64    `json:"monthly_rent"`
	SecurityDeposit int64    `json:"security_deposit"`
	Rules           []string `json:"rules"`
}

// Spec converts the input to a room spec. A missing available count means
// every unit is free.
func (in RoomInput) Spec() roomDomain.Spec {
	available := in.Capacity
	if in.AvailableCount != nil {
		available = *in.AvailableCount
	}
	return roomDomain.Spec{
		RoomType:        roomDomain.RoomType(in.RoomType),
		Capacity:        in.Capacity,
		AvailableCount:  available,
		MonthlyRent:     in.MonthlyRent,
		SecurityDeposit: in.SecurityDeposit,
		Rules:           in.Rules,
	}
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PropertyReviewsDTO is one page of a property's reviews with its rating
// summary. AverageRating is null until the first review.
type PropertyReviewsDTO struct {
	Reviews       []ReviewDTO `json:"reviews"`
	AverageRating *float64    `json:"average_rating"`
	ReviewCount   int64       `json:"review_count"`
	Page          int         `json:"page"`
	Limit         int         `json:"limit"`
}

// WishlistItemDTO is a saved property. Property is null once the listing is
// deleted.
type WishlistItemDTO struct {
	ID         uuid.UUID    `json:"id"`
	PropertyID uuid.UUID    `json:"property_id"`
	Property   *PropertyDTO `json:"property"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ComplaintDTO is the response representation of a complaint.
type ComplaintDTO struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AdminNotes  string    `json:"admin_notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		TenantID:        bk.TenantID(),
		PropertyID:      bk.PropertyID(),
		RoomID:          bk.RoomID(),
		Status:          string(bk.Status()),
		MonthlyRent:     bk.MonthlyRent(),
		SecurityDeposit: bk.SecurityDeposit(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		RejectionReason: bk.RejectionReason(),
		DecidedAt:       bk.DecidedAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func toRoomDTO(r *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:              r.ID(),
		PropertyID:      r.PropertyID(),
		RoomType:        string(r.RoomType()),
		Capacity:        r.Capacity(),
		AvailableCount:  r.AvailableCount(),
		MonthlyRent:     r.MonthlyRent(),
		SecurityDeposit: r.SecurityDeposit(),
		Rules:           r.Rules(),
	}
}

func toPropertyDTO(p *propertyDomain.Property, rooms []*roomDomain.Room) PropertyDTO {
	roomDTOs := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		roomDTOs[i] = toRoomDTO(r)
	}
	return PropertyDTO{
		ID:                  p.ID(),
		OwnerID:             p.OwnerID(),
		Name:                p.Name(),
		NearestCollege:      p.NearestCollege(),
		DistanceFromCollege: p.DistanceFromCollege(),
		Facilities:          p.Facilities(),
		Images:              p.Images(),
		Status:              string(p.Status()),
		RejectionReason:     p.RejectionReason(),
		Rooms:               roomDTOs,
		CreatedAt:           p.CreatedAt(),
		UpdatedAt:           p.UpdatedAt(),
	}
}

func toAuditLogDTO(l *auditDomain.Log) AuditLogDTO {
	return AuditLogDTO{
		ID:         l.ID(),
		AdminID:    l.AdminID(),
		Action:     string(l.Action()),
		Resource:   string(l.Resource()),
		ResourceID: l.ResourceID(),
		Details:    l.Details(),
		IPAddress:  l.IPAddress(),
		UserAgent:  l.UserAgent(),
		CreatedAt:  l.CreatedAt(),
	}
}

func toReviewDTO(r *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID(),
		PropertyID: r.PropertyID(),
		TenantID:   r.TenantID(),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

func toReviewDTOs(reviews []*reviewDomain.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = toReviewDTO(r)
	}
	return dtos
}

func toWishlistItemDTO(item *wishlistDomain.Item, property *PropertyDTO) WishlistItemDTO {
	return WishlistItemDTO{
		ID:         item.ID(),
		PropertyID: item.PropertyID(),
		Property:   property,
		CreatedAt:  item.CreatedAt(),
	}
}

func toComplaintDTO(c *complaintDomain.Complaint) ComplaintDTO {
	return ComplaintDTO{
		ID:          c.ID(),
		TenantID:    c.TenantID(),
		PropertyID:  c.PropertyID(),
		Subject:     c.Subject(),
		Description: c.Description(),
		Status:      string(c.Status()),
		AdminNotes:  c.AdminNotes(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}
