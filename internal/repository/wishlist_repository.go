package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	wishlistDomain "github.com/campusnest/service-housing/internal/domain/wishlist"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItemModel is the GORM model for the wishlist_items table.
type WishlistItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_tenant_property"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_tenant_property"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}

// GormWishlistRepository is the GORM-based implementation of wishlist.Repository.
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository.
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// Save persists a new wishlist item.
func (r *GormWishlistRepository) Save(ctx context.Context, item *wishlistDomain.Item) error {
	model := &WishlistItemModel{
		ID:         item.ID(),
		TenantID:   item.TenantID(),
		PropertyID: item.PropertyID(),
		CreatedAt:  item.CreatedAt(),
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewValidationError("already in wishlist")
		}
		return fmt.Errorf("failed to save wishlist item: %w", err)
	}
	return nil
}

// FindByID retrieves a wishlist item.
func (r *GormWishlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*wishlistDomain.Item, error) {
	var model WishlistItemModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Wishlist item", id.String())
		}
		return nil, fmt.Errorf("failed to find wishlist item: %w", err)
	}
	return wishlistDomain.Reconstruct(model.ID, model.TenantID, model.PropertyID, model.CreatedAt), nil
}

// Exists reports whether the tenant saved the property.
func (r *GormWishlistRepository) Exists(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&WishlistItemModel{}).
		Where("tenant_id = ? AND property_id = ?", tenantID, propertyID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return count > 0, nil
}

// FindByTenantID returns a tenant's items newest first.
func (r *GormWishlistRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*wishlistDomain.Item, error) {
	var models []WishlistItemModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	items := make([]*wishlistDomain.Item, len(models))
	for i, m := range models {
		items[i] = wishlistDomain.Reconstruct(m.ID, m.TenantID, m.PropertyID, m.CreatedAt)
	}
	return items, nil
}

// Delete removes a wishlist item.
func (r *GormWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&WishlistItemModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Wishlist item", id.String())
	}
	return nil
}
