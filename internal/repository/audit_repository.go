package repository

import (
	"context"
	"fmt"
	"time"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogModel is the GORM model for the audit_logs table.
type AuditLogModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AdminID    uuid.UUID      `gorm:"type:uuid;index;not null"`
	Action     string         `gorm:"not null;size:50;index"`
	Resource   string         `gorm:"not null;size:50"`
	ResourceID *uuid.UUID     `gorm:"type:uuid"`
	Details    map[string]any `gorm:"serializer:json;type:jsonb"`
	IPAddress  string         `gorm:"size:64"`
	UserAgent  string         `gorm:"size:500"`
	CreatedAt  time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// GormAuditRepository is the GORM-based implementation of audit.Repository.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save appends an audit record.
func (r *GormAuditRepository) Save(ctx context.Context, l *auditDomain.Log) error {
	model := &AuditLogModel{
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
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}

// List returns audit records newest first.
func (r *GormAuditRepository) List(ctx context.Context, page, limit int) ([]*auditDomain.Log, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&AuditLogModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var models []AuditLogModel
	if err := conn(ctx, r.db).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	logs := make([]*auditDomain.Log, len(models))
	for i, m := range models {
		logs[i] = auditDomain.Reconstruct(
			m.ID, m.AdminID,
			auditDomain.Action(m.Action),
			auditDomain.Resource(m.Resource),
			m.ResourceID,
			m.Details,
			m.IPAddress, m.UserAgent,
			m.CreatedAt,
		)
	}
	return logs, total, nil
}
