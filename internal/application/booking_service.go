package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	PropertyID uuid.UUID  `json:"property_id" binding:"required"`
	RoomID     uuid.UUID  `json:"room_id" binding:"required"`
	StartDate  time.Time  `json:"start_date" binding:"required"`
	EndDate    *time.Time `json:"end_date"`
}

// UpdateBookingStatusRequest asks for a booking status transition.
type UpdateBookingStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings   bookingDomain.BookingRepository
	rooms      roomDomain.RoomRepository
	properties propertyDomain.PropertyRepository
	audits     auditDomain.Repository
	tx         Transactor
	publisher  EventPublisher
	cache      PropertyCache
	logger     *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	rooms roomDomain.RoomRepository,
	properties propertyDomain.PropertyRepository,
	audits auditDomain.Repository,
	tx Transactor,
	publisher EventPublisher,
	cache PropertyCache,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		rooms:      rooms,
		properties: properties,
		audits:     audits,
		tx:         tx,
		publisher:  publisher,
		cache:      cache,
		logger:     logger,
	}
}

// CreateBooking places a pending booking for a tenant on an available room.
// The duplicate check and the insert are separate statements; two identical
// concurrent requests can both pass it.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if !bookingDomain.CanCreate(actor) {
		return nil, domain.NewForbiddenError("only tenants can book rooms")
	}

	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsListable() {
		return nil, domain.NewValidationError("property is not available for booking")
	}

	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.BelongsTo(prop.ID()) {
		return nil, domain.NewValidationError("room does not belong to this property")
	}
	if !rm.HasAvailability() {
		return nil, domain.NewCapacityExhaustedError("no rooms available")
	}

	exists, err := s.bookings.HasActiveBooking(ctx, actor.ID, rm.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewValidationError("you already have an active booking for this room")
	}

	bk, err := bookingDomain.NewBooking(actor.ID, rm, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("room_id", rm.ID().String()),
		zap.String("tenant_id", actor.ID.String()),
	)

	evt := events.BookingRequestedEvent{
		BookingID:       bk.ID(),
		TenantID:        bk.TenantID(),
		PropertyID:      bk.PropertyID(),
		RoomID:          bk.RoomID(),
		MonthlyRent:     bk.MonthlyRent(),
		SecurityDeposit: bk.SecurityDeposit(),
		StartDate:       bk.StartDate(),
		OccurredAt:      time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicBookingEvents, events.BookingRequested, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBookingStatus validates, authorizes and applies a requested status
// transition, keeping the room's available count in step with approvals.
func (s *BookingService) UpdateBookingStatus(
	ctx context.Context,
	actor Actor,
	bookingID uuid.UUID,
	req UpdateBookingStatusRequest,
	meta auditDomain.RequestMeta,
) (*BookingDTO, error) {
	// Unknown statuses are rejected before anything is read.
	requested, err := bookingDomain.ParseRequestedStatus(req.Status)
	if err != nil {
		return nil, err
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.AuthorizeTransition(ctx, actor, requested, bk, s.ownerOf); err != nil {
		return nil, err
	}

	from := bk.Status()
	changed, err := s.applyTransition(ctx, bk, requested, req.RejectionReason, actor.ID)
	if err != nil {
		return nil, err
	}

	if changed && actor.IsAdmin() {
		s.recordAdminBookingChange(ctx, actor.ID, bk, from, meta)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// applyTransition moves bk to requested. The room write and the versioned
// booking write commit together, so a lost booking write never leaves the room
// counter moved. It reports false for the approved-to-approved no-op.
func (s *BookingService) applyTransition(ctx context.Context, bk *bookingDomain.Booking, requested bookingDomain.BookingStatus, reason string, changedBy uuid.UUID) (bool, error) {
	from := bk.Status()
	if requested == bookingDomain.StatusApproved && from == bookingDomain.StatusApproved {
		return false, nil
	}
	if !from.CanTransitionTo(requested) {
		return false, domain.NewInvalidStateError(string(from), string(requested))
	}

	var roomAvailable *int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		switch requested {
		case bookingDomain.StatusApproved:
			rm, err := s.rooms.DecrementAvailable(ctx, bk.RoomID())
			if err != nil {
				if errors.Is(err, roomDomain.ErrNoAvailability) {
					return domain.NewCapacityExhaustedError("no rooms available")
				}
				return err
			}
			available := rm.AvailableCount()
			roomAvailable = &available
			if err := bk.Approve(); err != nil {
				return err
			}

		case bookingDomain.StatusCancelled:
			releases, err := bk.Cancel()
			if err != nil {
				return err
			}
			if releases {
				if err := s.releaseUnit(ctx, bk); err != nil {
					return err
				}
			}

		case bookingDomain.StatusRejected:
			if err := bk.Reject(reason); err != nil {
				return err
			}

		case bookingDomain.StatusCompleted:
			if err := bk.Complete(); err != nil {
				return err
			}
		}

		bk.IncrementVersion()
		return s.bookings.Update(ctx, bk)
	})
	if err != nil {
		s.logger.Warn("booking status change rolled back",
			zap.String("booking_id", bk.ID().String()),
			zap.String("room_id", bk.RoomID().String()),
			zap.String("to_status", string(requested)),
			zap.Error(err),
		)
		return false, err
	}

	roomTouched := from.HoldsUnit() != bk.Status().HoldsUnit()

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("room_id", bk.RoomID().String()),
		zap.String("from_status", string(from)),
		zap.String("to_status", string(requested)),
	)

	if roomTouched {
		invalidateProperty(ctx, s.cache, s.logger, bk.PropertyID())
	}

	evt := events.BookingStatusChangedEvent{
		BookingID:       bk.ID(),
		TenantID:        bk.TenantID(),
		PropertyID:      bk.PropertyID(),
		RoomID:          bk.RoomID(),
		FromStatus:      string(from),
		ToStatus:        string(requested),
		ChangedBy:       changedBy,
		RejectionReason: bk.RejectionReason(),
		RoomAvailable:   roomAvailable,
		OccurredAt:      time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicBookingEvents, events.BookingStatusEventType(string(requested)), bk.ID().String(), evt)

	return true, nil
}

// GetBooking retrieves a single booking visible to the actor.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.AuthorizeView(ctx, actor, bk, s.ownerOf); err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings returns the bookings the actor may see: tenants their own,
// owners those on their properties, admins all.
func (s *BookingService) ListBookings(ctx context.Context, actor Actor, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var (
		bookings []*bookingDomain.Booking
		total    int64
		err      error
	)

	switch actor.Role {
	case auth.RoleAdmin:
		bookings, total, err = s.bookings.ListAll(ctx, page, limit)
	case auth.RoleOwner:
		var propertyIDs []uuid.UUID
		propertyIDs, err = s.properties.IDsByOwner(ctx, actor.ID)
		if err == nil {
			bookings, total, err = s.bookings.FindByPropertyIDs(ctx, propertyIDs, page, limit)
		}
	case auth.RoleTenant:
		bookings, total, err = s.bookings.FindByTenantID(ctx, actor.ID, page, limit)
	default:
		return nil, domain.NewForbiddenError("unknown role")
	}
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// CancelActiveBookingsForUser cancels every pending or approved booking of a
// user who left the platform, releasing held room units. It stops at the
// first failure; the event consumer retries the whole call and bookings that
// were already cancelled are no longer active.
func (s *BookingService) CancelActiveBookingsForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	active, err := s.bookings.FindActiveByTenantID(ctx, userID)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, bk := range active {
		if _, err := s.applyTransition(ctx, bk, bookingDomain.StatusCancelled, "", uuid.Nil); err != nil {
			return cancelled, fmt.Errorf("failed to cancel booking %s: %w", bk.ID(), err)
		}
		cancelled++
	}
	return cancelled, nil
}

// releaseUnit returns the unit held by bk to its room. A room removed by a
// listing edit or deletion has nothing left to release.
func (s *BookingService) releaseUnit(ctx context.Context, bk *bookingDomain.Booking) error {
	err := s.rooms.IncrementAvailable(ctx, bk.RoomID())
	if domain.IsKind(err, domain.KindNotFound) {
		s.logger.Warn("room of released booking no longer exists",
			zap.String("booking_id", bk.ID().String()),
			zap.String("room_id", bk.RoomID().String()),
		)
		return nil
	}
	return err
}

func (s *BookingService) ownerOf(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return uuid.Nil, err
	}
	return prop.OwnerID(), nil
}

func (s *BookingService) recordAdminBookingChange(ctx context.Context, adminID uuid.UUID, bk *bookingDomain.Booking, from bookingDomain.BookingStatus, meta auditDomain.RequestMeta) {
	bookingID := bk.ID()
	entry, err := auditDomain.NewLog(adminID, auditDomain.ActionBookingModify, auditDomain.ResourceBooking, &bookingID,
		map[string]any{"from_status": string(from), "to_status": string(bk.Status())}, meta)
	if err == nil {
		err = s.audits.Save(ctx, entry)
	}
	if err != nil {
		s.logger.Error("failed to record audit log",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
	}
}
