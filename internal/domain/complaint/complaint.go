package complaint

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// Status tracks a complaint through admin handling.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

const (
	MaxSubjectLength     = 200
	MaxDescriptionLength = 2000
)

// ParseStatus validates a client-supplied status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return st, nil
	default:
		return "", domain.NewValidationError("status must be one of pending, in-progress, resolved, rejected")
	}
}

// Complaint is a tenant's grievance about a property, handled by admins.
type Complaint struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	propertyID  uuid.UUID
	subject     string
	description string
	status      Status
	adminNotes  string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewComplaint opens a pending complaint.
func NewComplaint(tenantID, propertyID uuid.UUID, subject, description string) (*Complaint, error) {
	if tenantID == uuid.Nil || propertyID == uuid.Nil {
		return nil, domain.NewValidationError("tenant and property are required")
	}
	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)
	if subject == "" || description == "" {
		return nil, domain.NewValidationError("subject and description are required")
	}
	if utf8.RuneCountInString(subject) > MaxSubjectLength {
		return nil, domain.NewValidationError("subject must be at most 200 characters")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, domain.NewValidationError("description must be at most 2000 characters")
	}

	now := time.Now().UTC()
	return &Complaint{
		id:          uuid.New(),
		tenantID:    tenantID,
		propertyID:  propertyID,
		subject:     subject,
		description: description,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Complaint from persistence data (no validation).
func Reconstruct(
	id, tenantID, propertyID uuid.UUID,
	subject, description string,
	status Status,
	adminNotes string,
	createdAt, updatedAt time.Time,
) *Complaint {
	return &Complaint{
		id:          id,
		tenantID:    tenantID,
		propertyID:  propertyID,
		subject:     subject,
		description: description,
		status:      status,
		adminNotes:  adminNotes,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Complaint) ID() uuid.UUID         { return c.id }
func (c *Complaint) TenantID() uuid.UUID   { return c.tenantID }
func (c *Complaint) PropertyID() uuid.UUID { return c.propertyID }
func (c *Complaint) Subject() string       { return c.subject }
func (c *Complaint) Description() string   { return c.description }
func (c *Complaint) Status() Status        { return c.status }
func (c *Complaint) AdminNotes() string    { return c.adminNotes }
func (c *Complaint) CreatedAt() time.Time  { return c.createdAt }
func (c *Complaint) UpdatedAt() time.Time  { return c.updatedAt }

// SetStatus moves the complaint to any status. Notes are replaced only when
// given.
func (c *Complaint) SetStatus(status Status, notes *string) {
	c.status = status
	if notes != nil {
		c.adminNotes = strings.TrimSpace(*notes)
	}
	c.updatedAt = time.Now().UTC()
}

// ListFilter narrows a complaint listing. Zero values mean "no filter".
type ListFilter struct {
	TenantID *uuid.UUID
	Status   *Status

	// PropertyIDs restricts results to these properties when non-nil.
	PropertyIDs []uuid.UUID
}

// Repository persists complaints.
type Repository interface {
	Save(ctx context.Context, complaint *Complaint) error
	Update(ctx context.Context, complaint *Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*Complaint, error)

	// List returns one page of matching complaints, newest first.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Complaint, int64, error)

	CountByStatus(ctx context.Context, status Status) (int64, error)
}
