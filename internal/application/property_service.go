package application

import (
	"context"
	"fmt"
	"time"

	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePropertyRequest holds the data needed to list a new property.
type CreatePropertyRequest struct {
	Name                string      `json:"name" binding:"required"`
	NearestCollege      string      `json:"nearest_college" binding:"required"`
	DistanceFromCollege float64     `json:"distance_from_college"`
	Facilities          []string    `json:"facilities"`
	Images              []string    `json:"images"`
	Rooms               []RoomInput `json:"rooms"`
}

// UpdatePropertyRequest is a partial update. When either image list is sent
// the stored images become ExistingImages followed by NewImages. When Rooms is
// sent the property's rooms are replaced wholesale.
type UpdatePropertyRequest struct {
	Name                *string      `json:"name"`
	NearestCollege      *string      `json:"nearest_college"`
	DistanceFromCollege *float64     `json:"distance_from_college"`
	Facilities          []string     `json:"facilities"`
	ExistingImages      []string     `json:"existing_images"`
	NewImages           []string     `json:"new_images"`
	Rooms               *[]RoomInput `json:"rooms"`
}

// ListPropertiesQuery carries listing filters from the query string.
type ListPropertiesQuery struct {
	Owner          string   `form:"owner"`
	Status         string   `form:"status"`
	NearestCollege string   `form:"college"`
	MaxDistance    *float64 `form:"max_distance"`
	Facilities     []string `form:"facilities"`
	MinRent        *int64   `form:"min_rent"`
	MaxRent        *int64   `form:"max_rent"`
}

// PropertyService is the application service for listings and their rooms.
type PropertyService struct {
	properties propertyDomain.PropertyRepository
	rooms      roomDomain.RoomRepository
	publisher  EventPublisher
	cache      PropertyCache
	logger     *zap.Logger
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(
	properties propertyDomain.PropertyRepository,
	rooms roomDomain.RoomRepository,
	publisher EventPublisher,
	cache PropertyCache,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		rooms:      rooms,
		publisher:  publisher,
		cache:      cache,
		logger:     logger,
	}
}

// CreateProperty lists a property for moderation, with optional initial rooms.
func (s *PropertyService) CreateProperty(ctx context.Context, actor Actor, req CreatePropertyRequest) (*PropertyDTO, error) {
	if actor.Role != auth.RoleOwner && !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("only owners can list properties")
	}

	prop, err := propertyDomain.NewProperty(actor.ID, propertyDomain.Details{
		Name:                req.Name,
		NearestCollege:      req.NearestCollege,
		DistanceFromCollege: req.DistanceFromCollege,
		Facilities:          req.Facilities,
		Images:              req.Images,
	})
	if err != nil {
		return nil, err
	}

	rooms := make([]*roomDomain.Room, 0, len(req.Rooms))
	for i, in := range req.Rooms {
		rm, err := roomDomain.NewRoom(prop.ID(), in.Spec())
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("room %d: %v", i+1, err))
		}
		rooms = append(rooms, rm)
	}

	if err := s.properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	if len(rooms) > 0 {
		if err := s.rooms.ReplaceForProperty(ctx, prop.ID(), rooms); err != nil {
			return nil, err
		}
	}

	s.logger.Info("property created",
		zap.String("property_id", prop.ID().String()),
		zap.String("owner_id", prop.OwnerID().String()),
		zap.Int("rooms", len(rooms)),
	)
	s.publishPropertyEvent(ctx, events.PropertyCreated, prop, actor.ID)

	result := toPropertyDTO(prop, rooms)
	return &result, nil
}

// AddRoom adds a room to a property the actor owns.
func (s *PropertyService) AddRoom(ctx context.Context, actor Actor, propertyID uuid.UUID, in RoomInput) (*RoomDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := authorizePropertyWrite(actor, prop); err != nil {
		return nil, err
	}

	rm, err := roomDomain.NewRoom(prop.ID(), in.Spec())
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	invalidateProperty(ctx, s.cache, s.logger, prop.ID())

	result := toRoomDTO(rm)
	return &result, nil
}

// GetProperty returns a property with its rooms, served from cache when possible.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*PropertyDetailDTO, error) {
	var cached PropertyDetailDTO
	hit, err := s.cache.Get(ctx, propertyID, &cached)
	if err != nil {
		s.logger.Warn("property cache read failed", zap.String("property_id", propertyID.String()), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.FindByPropertyID(ctx, prop.ID())
	if err != nil {
		return nil, err
	}

	result := PropertyDetailDTO{
		PropertyDTO: toPropertyDTO(prop, rooms),
		Available:   prop.IsListable(),
	}
	if err := s.cache.Set(ctx, prop.ID(), result); err != nil {
		s.logger.Warn("property cache write failed", zap.String("property_id", propertyID.String()), zap.Error(err))
	}
	return &result, nil
}

// ListProperties returns listings visible to viewer (nil for anonymous).
// Anonymous users and tenants see approved listings only. Owners see their own
// listings in any status with owner=me. Admins see everything.
func (s *PropertyService) ListProperties(ctx context.Context, viewer *Actor, q ListPropertiesQuery, page, limit int) (*domain.PaginatedResult[PropertyDTO], error) {
	filter := propertyDomain.ListFilter{
		NearestCollege: q.NearestCollege,
		MaxDistanceKm:  q.MaxDistance,
		Facilities:     q.Facilities,
	}

	var requestedStatus *propertyDomain.PropertyStatus
	if q.Status != "" {
		st, err := propertyDomain.ParsePropertyStatus(q.Status)
		if err != nil {
			return nil, err
		}
		requestedStatus = &st
	}

	approved := propertyDomain.StatusApproved
	switch {
	case viewer != nil && viewer.IsAdmin():
		filter.Status = requestedStatus
	case viewer != nil && viewer.Role == auth.RoleOwner && q.Owner == "me":
		ownerID := viewer.ID
		filter.OwnerID = &ownerID
		filter.Status = requestedStatus
	default:
		filter.Status = &approved
	}

	if q.MinRent != nil || q.MaxRent != nil {
		ids, err := s.rooms.PropertyIDsWithRentBetween(ctx, q.MinRent, q.MaxRent)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []uuid.UUID{}
		}
		filter.IDs = ids
	}

	props, total, err := s.properties.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos, err := s.withRooms(ctx, props)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateProperty applies a partial update. Replacement rooms that fail
// validation are skipped and logged. The replace overwrites available counts
// without coordinating with concurrent approvals.
func (s *PropertyService) UpdateProperty(ctx context.Context, actor Actor, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := authorizePropertyWrite(actor, prop); err != nil {
		return nil, err
	}

	patch := propertyDomain.Patch{
		Name:                req.Name,
		NearestCollege:      req.NearestCollege,
		DistanceFromCollege: req.DistanceFromCollege,
		Facilities:          req.Facilities,
	}
	if req.ExistingImages != nil || req.NewImages != nil {
		images := make([]string, 0, len(req.ExistingImages)+len(req.NewImages))
		images = append(images, req.ExistingImages...)
		images = append(images, req.NewImages...)
		patch.Images = images
	}
	if err := prop.ApplyPatch(patch); err != nil {
		return nil, err
	}
	if err := s.properties.Update(ctx, prop); err != nil {
		return nil, err
	}

	var rooms []*roomDomain.Room
	if req.Rooms != nil {
		rooms = make([]*roomDomain.Room, 0, len(*req.Rooms))
		for i, in := range *req.Rooms {
			rm, err := roomDomain.NewRoom(prop.ID(), in.Spec())
			if err != nil {
				s.logger.Warn("skipping invalid room in update",
					zap.String("property_id", prop.ID().String()),
					zap.Int("index", i),
					zap.Error(err),
				)
				continue
			}
			rooms = append(rooms, rm)
		}
		if err := s.rooms.ReplaceForProperty(ctx, prop.ID(), rooms); err != nil {
			return nil, err
		}
	} else {
		rooms, err = s.rooms.FindByPropertyID(ctx, prop.ID())
		if err != nil {
			return nil, err
		}
	}

	invalidateProperty(ctx, s.cache, s.logger, prop.ID())

	result := toPropertyDTO(prop, rooms)
	return &result, nil
}

// DeleteProperty removes a property and its rooms. Bookings are kept as history.
func (s *PropertyService) DeleteProperty(ctx context.Context, actor Actor, propertyID uuid.UUID) error {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := authorizePropertyWrite(actor, prop); err != nil {
		return err
	}

	if err := s.rooms.DeleteByPropertyID(ctx, prop.ID()); err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, prop.ID()); err != nil {
		return err
	}

	s.logger.Info("property deleted",
		zap.String("property_id", prop.ID().String()),
		zap.String("actor_id", actor.ID.String()),
	)
	invalidateProperty(ctx, s.cache, s.logger, prop.ID())
	s.publishPropertyEvent(ctx, events.PropertyDeleted, prop, actor.ID)
	return nil
}

func (s *PropertyService) withRooms(ctx context.Context, props []*propertyDomain.Property) ([]PropertyDTO, error) {
	ids := make([]uuid.UUID, len(props))
	for i, p := range props {
		ids[i] = p.ID()
	}
	grouped, err := s.rooms.FindByPropertyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]PropertyDTO, len(props))
	for i, p := range props {
		dtos[i] = toPropertyDTO(p, grouped[p.ID()])
	}
	return dtos, nil
}

func (s *PropertyService) publishPropertyEvent(ctx context.Context, eventType string, prop *propertyDomain.Property, actorID uuid.UUID) {
	evt := events.PropertyEvent{
		PropertyID: prop.ID(),
		OwnerID:    prop.OwnerID(),
		Status:     string(prop.Status()),
		Reason:     prop.RejectionReason(),
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicPropertyEvents, eventType, prop.ID().String(), evt)
}

func authorizePropertyWrite(actor Actor, prop *propertyDomain.Property) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == auth.RoleOwner && prop.IsOwnedBy(actor.ID) {
		return nil
	}
	return domain.NewForbiddenError("you do not own this property")
}
