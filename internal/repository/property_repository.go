package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyModel is the GORM model for the properties table.
type PropertyModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID             uuid.UUID `gorm:"type:uuid;index;not null"`
	Name                string    `gorm:"not null;size:200"`
	NearestCollege      string    `gorm:"not null;size:200"`
	DistanceFromCollege float64   `gorm:"not null"`
	Facilities          []string  `gorm:"serializer:json;type:jsonb"`
	Images              []string  `gorm:"serializer:json;type:jsonb"`
	Status              string    `gorm:"not null;size:20;index"`
	RejectionReason     string    `gorm:"size:500"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PropertyModel) TableName() string {
	return "properties"
}

// GormPropertyRepository is the GORM-based implementation of PropertyRepository.
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository.
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID retrieves a property by its unique identifier.
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	var model PropertyModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Property", id.String())
		}
		return nil, fmt.Errorf("failed to find property by ID: %w", err)
	}
	return toDomainProperty(&model), nil
}

// List returns one page of properties matching the filter, newest first.
func (r *GormPropertyRepository) List(ctx context.Context, filter propertyDomain.ListFilter, page, limit int) ([]*propertyDomain.Property, int64, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []*propertyDomain.Property{}, 0, nil
	}

	base := func() *gorm.DB {
		return applyPropertyFilter(conn(ctx, r.db).Model(&PropertyModel{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var models []PropertyModel
	offset := (page - 1) * limit
	if err := base().
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}

	properties := make([]*propertyDomain.Property, len(models))
	for i := range models {
		properties[i] = toDomainProperty(&models[i])
	}
	return properties, total, nil
}

func applyPropertyFilter(query *gorm.DB, filter propertyDomain.ListFilter) *gorm.DB {
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if college := strings.TrimSpace(filter.NearestCollege); college != "" {
		query = query.Where("LOWER(nearest_college) LIKE ?", "%"+strings.ToLower(college)+"%")
	}
	if filter.MaxDistanceKm != nil {
		query = query.Where("distance_from_college <= ?", *filter.MaxDistanceKm)
	}
	if len(filter.Facilities) > 0 {
		// Any-of match against the JSON array text; portable across Postgres and SQLite.
		var clauses []string
		var args []interface{}
		for _, f := range filter.Facilities {
			if f = strings.TrimSpace(f); f == "" {
				continue
			}
			clauses = append(clauses, "CAST(facilities AS TEXT) LIKE ?")
			args = append(args, `%"`+f+`"%`)
		}
		if len(clauses) > 0 {
			query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}
	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}
	return query
}

// IDsByOwner returns all property IDs belonging to an owner.
func (r *GormPropertyRepository) IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := conn(ctx, r.db).
		Model(&PropertyModel{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner properties: %w", err)
	}
	return ids, nil
}

// CountByStatus returns property counts grouped by status (admin).
func (r *GormPropertyRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := conn(ctx, r.db).Model(&PropertyModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new property.
func (r *GormPropertyRepository) Save(ctx context.Context, p *propertyDomain.Property) error {
	if err := conn(ctx, r.db).Create(toPropertyModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

// Update persists changes to an existing property.
func (r *GormPropertyRepository) Update(ctx context.Context, p *propertyDomain.Property) error {
	model := toPropertyModel(p)
	result := conn(ctx, r.db).
		Model(&PropertyModel{ID: model.ID}).
		Select("name", "nearest_college", "distance_from_college", "facilities", "images", "status", "rejection_reason", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Property", p.ID().String())
	}
	return nil
}

// Delete removes a property. Rooms must be deleted by the caller.
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&PropertyModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Property", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toPropertyModel(p *propertyDomain.Property) *PropertyModel {
	return &PropertyModel{
		ID:                  p.ID(),
		OwnerID:             p.OwnerID(),
		Name:                p.Name(),
		NearestCollege:      p.NearestCollege(),
		DistanceFromCollege: p.DistanceFromCollege(),
		Facilities:          p.Facilities(),
		Images:              p.Images(),
		Status:              string(p.Status()),
		RejectionReason:     p.RejectionReason(),
		CreatedAt:           p.CreatedAt(),
		UpdatedAt:           p.UpdatedAt(),
	}
}

func toDomainProperty(m *PropertyModel) *propertyDomain.Property {
	return propertyDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.NearestCollege,
		m.DistanceFromCollege,
		orEmpty(m.Facilities),
		orEmpty(m.Images),
		propertyDomain.PropertyStatus(m.Status),
		m.RejectionReason,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
