package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	complaintDomain "github.com/campusnest/service-housing/internal/domain/complaint"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintModel is the GORM model for the complaints table.
type ComplaintModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Subject     string    `gorm:"not null;size:200"`
	Description string    `gorm:"not null;size:2000"`
	Status      string    `gorm:"not null;size:20;index"`
	AdminNotes  string    `gorm:"size:2000"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ComplaintModel) TableName() string {
	return "complaints"
}

// GormComplaintRepository is the GORM-based implementation of complaint.Repository.
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewGormComplaintRepository creates a new GormComplaintRepository.
func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Save persists a new complaint.
func (r *GormComplaintRepository) Save(ctx context.Context, c *complaintDomain.Complaint) error {
	if err := conn(ctx, r.db).Create(toComplaintModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save complaint: %w", err)
	}
	return nil
}

// Update persists status and admin notes.
func (r *GormComplaintRepository) Update(ctx context.Context, c *complaintDomain.Complaint) error {
	result := conn(ctx, r.db).Model(&ComplaintModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]interface{}{
			"status":      string(c.Status()),
			"admin_notes": c.AdminNotes(),
			"updated_at":  c.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Complaint", c.ID().String())
	}
	return nil
}

// FindByID retrieves a complaint by its unique identifier.
func (r *GormComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaintDomain.Complaint, error) {
	var model ComplaintModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Complaint", id.String())
		}
		return nil, fmt.Errorf("failed to find complaint by ID: %w", err)
	}
	return toDomainComplaint(&model), nil
}

// List returns one page of matching complaints, newest first.
func (r *GormComplaintRepository) List(ctx context.Context, filter complaintDomain.ListFilter, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	if filter.PropertyIDs != nil && len(filter.PropertyIDs) == 0 {
		return []*complaintDomain.Complaint{}, 0, nil
	}
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.TenantID != nil {
			db = db.Where("tenant_id = ?", *filter.TenantID)
		}
		if filter.PropertyIDs != nil {
			db = db.Where("property_id IN ?", filter.PropertyIDs)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", string(*filter.Status))
		}
		return db
	}

	var total int64
	if err := conn(ctx, r.db).Model(&ComplaintModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count complaints: %w", err)
	}

	var models []ComplaintModel
	if err := conn(ctx, r.db).
		Scopes(scope).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
	}

	complaints := make([]*complaintDomain.Complaint, len(models))
	for i := range models {
		complaints[i] = toDomainComplaint(&models[i])
	}
	return complaints, total, nil
}

// CountByStatus counts complaints in one status.
func (r *GormComplaintRepository) CountByStatus(ctx context.Context, status complaintDomain.Status) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&ComplaintModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	return count, nil
}

func toComplaintModel(c *complaintDomain.Complaint) *ComplaintModel {
	return &ComplaintModel{
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

func toDomainComplaint(m *ComplaintModel) *complaintDomain.Complaint {
	return complaintDomain.Reconstruct(
		m.ID, m.TenantID, m.PropertyID,
		m.Subject, m.Description,
		complaintDomain.Status(m.Status),
		m.AdminNotes,
		m.CreatedAt, m.UpdatedAt,
	)
}
