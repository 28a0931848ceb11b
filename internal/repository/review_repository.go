package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reviewDomain "github.com/campusnest/service-housing/internal/domain/review"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_property_tenant"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_property_tenant;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"not null;size:1000"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of review.Repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a new review. A second review of the same property by the
// same tenant is rejected by the unique index.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	if err := conn(ctx, r.db).Create(toReviewModel(rv)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewValidationError("you have already reviewed this property")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// Update persists rating and comment changes.
func (r *GormReviewRepository) Update(ctx context.Context, rv *reviewDomain.Review) error {
	result := conn(ctx, r.db).Model(&ReviewModel{}).
		Where("id = ?", rv.ID()).
		Updates(map[string]interface{}{
			"rating":     rv.Rating(),
			"comment":    rv.Comment(),
			"updated_at": rv.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Review", rv.ID().String())
	}
	return nil
}

// Delete removes a review.
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&ReviewModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Review", id.String())
	}
	return nil
}

// FindByID retrieves a review by its unique identifier.
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	var model ReviewModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", id.String())
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return toDomainReview(&model), nil
}

// Exists reports whether the tenant already reviewed the property.
func (r *GormReviewRepository) Exists(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&ReviewModel{}).
		Where("tenant_id = ? AND property_id = ?", tenantID, propertyID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return count > 0, nil
}

// List returns reviews newest first, optionally for one property.
func (r *GormReviewRepository) List(ctx context.Context, propertyID *uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if propertyID != nil {
			return db.Where("property_id = ?", *propertyID)
		}
		return db
	}

	var total int64
	if err := conn(ctx, r.db).Model(&ReviewModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	if err := conn(ctx, r.db).
		Scopes(scope).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i := range models {
		reviews[i] = toDomainReview(&models[i])
	}
	return reviews, total, nil
}

// Summarize returns the average rating and review count of a property.
func (r *GormReviewRepository) Summarize(ctx context.Context, propertyID uuid.UUID) (reviewDomain.Summary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	if err := conn(ctx, r.db).Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("property_id = ?", propertyID).
		Scan(&row).Error; err != nil {
		return reviewDomain.Summary{}, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	return reviewDomain.Summary{Average: row.Average, Count: row.Count}, nil
}

func toReviewModel(rv *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
		ID:         rv.ID(),
		PropertyID: rv.PropertyID(),
		TenantID:   rv.TenantID(),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
		UpdatedAt:  rv.UpdatedAt(),
	}
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(m.ID, m.PropertyID, m.TenantID, m.Rating, m.Comment, m.CreatedAt, m.UpdatedAt)
}
