package audit

import (
	"context"
	"time"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// Action names an administrative operation worth recording.
type Action string

const (
	ActionPropertyApprove  Action = "property_approve"
	ActionPropertyReject   Action = "property_reject"
	ActionBookingModify    Action = "booking_modify"
	ActionBookingExport    Action = "booking_export"
	ActionComplaintUpdate  Action = "complaint_update"
	ActionComplaintResolve Action = "complaint_resolve"
	ActionComplaintReject  Action = "complaint_reject"
)

// Resource names the kind of entity an action touched.
type Resource string

const (
	ResourceProperty  Resource = "property"
	ResourceBooking   Resource = "booking"
	ResourceComplaint Resource = "complaint"
)

// RequestMeta identifies the client an admin action came from.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Log is an immutable record of an admin action.
type Log struct {
	id         uuid.UUID
	adminID    uuid.UUID
	action     Action
	resource   Resource
	resourceID *uuid.UUID
	details    map[string]any
	ipAddress  string
	userAgent  string
	createdAt  time.Time
}

// NewLog creates an audit record. resourceID may be nil for bulk actions.
func NewLog(adminID uuid.UUID, action Action, resource Resource, resourceID *uuid.UUID, details map[string]any, meta RequestMeta) (*Log, error) {
	if adminID == uuid.Nil {
		return nil, domain.NewValidationError("admin ID is required")
	}
	if action == "" || resource == "" {
		return nil, domain.NewValidationError("action and resource are required")
	}
	if details == nil {
		details = map[string]any{}
	}
	return &Log{
		id:         uuid.New(),
		adminID:    adminID,
		action:     action,
		resource:   resource,
		resourceID: resourceID,
		details:    details,
		ipAddress:  meta.IPAddress,
		userAgent:  meta.UserAgent,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Log from persistence data (no validation).
func Reconstruct(
	id, adminID uuid.UUID,
	action Action,
	resource Resource,
	resourceID *uuid.UUID,
	details map[string]any,
	ipAddress, userAgent string,
	createdAt time.Time,
) *Log {
	return &Log{
		id:         id,
		adminID:    adminID,
		action:     action,
		resource:   resource,
		resourceID: resourceID,
		details:    details,
		ipAddress:  ipAddress,
		userAgent:  userAgent,
		createdAt:  createdAt,
	}
}

func (l *Log) ID() uuid.UUID           { return l.id }
func (l *Log) AdminID() uuid.UUID      { return l.adminID }
func (l *Log) Action() Action          { return l.action }
func (l *Log) Resource() Resource      { return l.resource }
func (l *Log) ResourceID() *uuid.UUID  { return l.resourceID }
func (l *Log) Details() map[string]any { return l.details }
func (l *Log) IPAddress() string       { return l.ipAddress }
func (l *Log) UserAgent() string       { return l.userAgent }
func (l *Log) CreatedAt() time.Time    { return l.createdAt }

// Repository persists audit records. Entries are append-only.
type Repository interface {
	Save(ctx context.Context, log *Log) error
	List(ctx context.Context, page, limit int) ([]*Log, int64, error)
}
