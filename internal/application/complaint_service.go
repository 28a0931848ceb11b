package application

import (
	"context"
	"time"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	complaintDomain "github.com/campusnest/service-housing/internal/domain/complaint"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateComplaintRequest is the payload for filing a complaint.
type CreateComplaintRequest struct {
	PropertyID  uuid.UUID `json:"property_id" binding:"required"`
	Subject     string    `json:"subject" binding:"required"`
	Description string    `json:"description" binding:"required"`
}

// UpdateComplaintStatusRequest is an admin's handling decision. AdminNotes
// replaces the stored notes only when present.
type UpdateComplaintStatusRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"admin_notes"`
}

// ComplaintService handles tenant complaints and their admin resolution.
type ComplaintService struct {
	complaints complaintDomain.Repository
	properties propertyDomain.PropertyRepository
	audits     auditDomain.Repository
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewComplaintService creates a new ComplaintService.
func NewComplaintService(
	complaints complaintDomain.Repository,
	properties propertyDomain.PropertyRepository,
	audits auditDomain.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		properties: properties,
		audits:     audits,
		publisher:  publisher,
		logger:     logger,
	}
}

// FileComplaint opens a pending complaint about a property.
func (s *ComplaintService) FileComplaint(ctx context.Context, actor Actor, req CreateComplaintRequest) (*ComplaintDTO, error) {
	if actor.Role != auth.RoleTenant {
		return nil, domain.NewForbiddenError("only tenants can file complaints")
	}
	if _, err := s.properties.FindByID(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	c, err := complaintDomain.NewComplaint(actor.ID, req.PropertyID, req.Subject, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.complaints.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("complaint filed",
		zap.String("complaint_id", c.ID().String()),
		zap.String("property_id", c.PropertyID().String()),
	)
	s.publish(ctx, c, events.ComplaintFiled, actor.ID)

	result := toComplaintDTO(c)
	return &result, nil
}

// ListComplaints returns complaints visible to the actor: tenants see their
// own, owners see those about their properties, admins see all.
func (s *ComplaintService) ListComplaints(ctx context.Context, actor Actor, status string, page, limit int) (*domain.PaginatedResult[ComplaintDTO], error) {
	var filter complaintDomain.ListFilter
	if status != "" {
		st, err := complaintDomain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleOwner:
		ids, err := s.properties.IDsByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []uuid.UUID{}
		}
		filter.PropertyIDs = ids
	default:
		filter.TenantID = &actor.ID
	}

	complaints, total, err := s.complaints.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]ComplaintDTO, len(complaints))
	for i, c := range complaints {
		dtos[i] = toComplaintDTO(c)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetComplaint returns one complaint if the actor may see it.
func (s *ComplaintService) GetComplaint(ctx context.Context, actor Actor, complaintID uuid.UUID) (*ComplaintDTO, error) {
	c, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleOwner:
		prop, err := s.properties.FindByID(ctx, c.PropertyID())
		if err != nil {
			return nil, err
		}
		if !prop.IsOwnedBy(actor.ID) {
			return nil, domain.NewForbiddenError("this complaint is not about your property")
		}
	default:
		if c.TenantID() != actor.ID {
			return nil, domain.NewForbiddenError("you can only view your own complaints")
		}
	}

	result := toComplaintDTO(c)
	return &result, nil
}

// UpdateComplaintStatus records an admin's handling of a complaint.
func (s *ComplaintService) UpdateComplaintStatus(
	ctx context.Context,
	adminID, complaintID uuid.UUID,
	req UpdateComplaintStatusRequest,
	meta auditDomain.RequestMeta,
) (*ComplaintDTO, error) {
	status, err := complaintDomain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	c, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	from := c.Status()
	c.SetStatus(status, req.AdminNotes)
	if err := s.complaints.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("complaint status updated",
		zap.String("complaint_id", c.ID().String()),
		zap.String("from_status", string(from)),
		zap.String("to_status", string(status)),
		zap.String("admin_id", adminID.String()),
	)

	action := auditDomain.ActionComplaintUpdate
	switch status {
	case complaintDomain.StatusResolved:
		action = auditDomain.ActionComplaintResolve
	case complaintDomain.StatusRejected:
		action = auditDomain.ActionComplaintReject
	}
	details := map[string]any{"from_status": string(from), "to_status": string(status)}
	if req.AdminNotes != nil {
		details["admin_notes"] = c.AdminNotes()
	}
	entry, err := auditDomain.NewLog(adminID, action, auditDomain.ResourceComplaint, &complaintID, details, meta)
	if err == nil {
		err = s.audits.Save(ctx, entry)
	}
	if err != nil {
		s.logger.Error("failed to record audit log",
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}

	s.publish(ctx, c, events.ComplaintStatusChanged, adminID)

	result := toComplaintDTO(c)
	return &result, nil
}

func (s *ComplaintService) publish(ctx context.Context, c *complaintDomain.Complaint, eventType string, actorID uuid.UUID) {
	evt := events.ComplaintEvent{
		ComplaintID: c.ID(),
		TenantID:    c.TenantID(),
		PropertyID:  c.PropertyID(),
		Status:      string(c.Status()),
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicComplaintEvents, eventType, c.ID().String(), evt)
}
