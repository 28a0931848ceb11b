package application

import (
	"context"

	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	wishlistDomain "github.com/campusnest/service-housing/internal/domain/wishlist"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToWishlistRequest is the payload for saving a property.
type AddToWishlistRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

// WishlistService manages the properties a tenant saved for later.
type WishlistService struct {
	items      wishlistDomain.Repository
	properties propertyDomain.PropertyRepository
	rooms      roomDomain.RoomRepository
	logger     *zap.Logger
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(
	items wishlistDomain.Repository,
	properties propertyDomain.PropertyRepository,
	rooms roomDomain.RoomRepository,
	logger *zap.Logger,
) *WishlistService {
	return &WishlistService{
		items:      items,
		properties: properties,
		rooms:      rooms,
		logger:     logger,
	}
}

// AddToWishlist saves an approved property for the tenant.
func (s *WishlistService) AddToWishlist(ctx context.Context, actor Actor, req AddToWishlistRequest) (*WishlistItemDTO, error) {
	if actor.Role != auth.RoleTenant {
		return nil, domain.NewForbiddenError("only tenants have a wishlist")
	}
	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsListable() {
		return nil, domain.NewValidationError("property not available")
	}
	exists, err := s.items.Exists(ctx, actor.ID, prop.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewValidationError("already in wishlist")
	}

	item, err := wishlistDomain.NewItem(actor.ID, prop.ID())
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("property added to wishlist",
		zap.String("tenant_id", actor.ID.String()),
		zap.String("property_id", prop.ID().String()),
	)

	dto := toPropertyDTO(prop, nil)
	result := toWishlistItemDTO(item, &dto)
	return &result, nil
}

// ListWishlist returns the tenant's saved properties with their rooms, newest first.
func (s *WishlistService) ListWishlist(ctx context.Context, actor Actor) ([]WishlistItemDTO, error) {
	if actor.Role != auth.RoleTenant {
		return nil, domain.NewForbiddenError("only tenants have a wishlist")
	}
	items, err := s.items.FindByTenantID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []WishlistItemDTO{}, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.PropertyID()
	}
	props, _, err := s.properties.List(ctx, propertyDomain.ListFilter{IDs: ids}, 1, len(ids))
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.FindByPropertyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]PropertyDTO, len(props))
	for _, p := range props {
		byID[p.ID()] = toPropertyDTO(p, rooms[p.ID()])
	}

	result := make([]WishlistItemDTO, len(items))
	for i, item := range items {
		var prop *PropertyDTO
		if dto, ok := byID[item.PropertyID()]; ok {
			prop = &dto
		}
		result[i] = toWishlistItemDTO(item, prop)
	}
	return result, nil
}

// RemoveFromWishlist deletes one of the tenant's items. Other tenants' items
// are reported as not found.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, actor Actor, itemID uuid.UUID) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.TenantID() != actor.ID {
		return domain.NewNotFoundError("Wishlist item", itemID.String())
	}
	return s.items.Delete(ctx, itemID)
}
