package application

import (
	"context"
	"fmt"
	"time"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	complaintDomain "github.com/campusnest/service-housing/internal/domain/complaint"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/export"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportPageSize = 500

// DashboardStatsDTO holds the admin dashboard counters. Revenue is the summed
// monthly rent of approved bookings.
type DashboardStatsDTO struct {
	TotalListings      int64            `json:"total_listings"`
	PendingProperties  int64            `json:"pending_properties"`
	TotalBookings      int64            `json:"total_bookings"`
	PendingComplaints  int64            `json:"pending_complaints"`
	Revenue            int64            `json:"revenue"`
	BookingsByStatus   map[string]int64 `json:"bookings_by_status"`
	PropertiesByStatus map[string]int64 `json:"properties_by_status"`
}

// AdminService handles listing moderation, reporting and audit history.
type AdminService struct {
	properties propertyDomain.PropertyRepository
	bookings   bookingDomain.BookingRepository
	complaints complaintDomain.Repository
	audits     auditDomain.Repository
	publisher  EventPublisher
	cache      PropertyCache
	logger     *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	properties propertyDomain.PropertyRepository,
	bookings bookingDomain.BookingRepository,
	complaints complaintDomain.Repository,
	audits auditDomain.Repository,
	publisher EventPublisher,
	cache PropertyCache,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		properties: properties,
		bookings:   bookings,
		complaints: complaints,
		audits:     audits,
		publisher:  publisher,
		cache:      cache,
		logger:     logger,
	}
}

// ApproveProperty makes a listing public.
func (s *AdminService) ApproveProperty(ctx context.Context, adminID, propertyID uuid.UUID, meta auditDomain.RequestMeta) (*PropertyDTO, error) {
	return s.moderate(ctx, adminID, propertyID, meta, auditDomain.ActionPropertyApprove, events.PropertyApproved,
		func(p *propertyDomain.Property) error { return p.Approve() })
}

// RejectProperty delists a listing with a reason.
func (s *AdminService) RejectProperty(ctx context.Context, adminID, propertyID uuid.UUID, reason string, meta auditDomain.RequestMeta) (*PropertyDTO, error) {
	return s.moderate(ctx, adminID, propertyID, meta, auditDomain.ActionPropertyReject, events.PropertyRejected,
		func(p *propertyDomain.Property) error { return p.Reject(reason) })
}

func (s *AdminService) moderate(
	ctx context.Context,
	adminID, propertyID uuid.UUID,
	meta auditDomain.RequestMeta,
	action auditDomain.Action,
	eventType string,
	apply func(*propertyDomain.Property) error,
) (*PropertyDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := apply(prop); err != nil {
		return nil, err
	}
	if err := s.properties.Update(ctx, prop); err != nil {
		return nil, err
	}

	s.logger.Info("property moderated",
		zap.String("property_id", prop.ID().String()),
		zap.String("status", string(prop.Status())),
		zap.String("admin_id", adminID.String()),
	)

	details := map[string]any{"status": string(prop.Status())}
	if prop.RejectionReason() != "" {
		details["reason"] = prop.RejectionReason()
	}
	s.record(ctx, adminID, action, auditDomain.ResourceProperty, &propertyID, details, meta)
	invalidateProperty(ctx, s.cache, s.logger, prop.ID())

	evt := events.PropertyEvent{
		PropertyID: prop.ID(),
		OwnerID:    prop.OwnerID(),
		Status:     string(prop.Status()),
		Reason:     prop.RejectionReason(),
		ActorID:    adminID,
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicPropertyEvents, eventType, prop.ID().String(), evt)

	result := toPropertyDTO(prop, nil)
	return &result, nil
}

// ListPendingProperties returns listings awaiting moderation.
func (s *AdminService) ListPendingProperties(ctx context.Context, page, limit int) (*domain.PaginatedResult[PropertyDTO], error) {
	pending := propertyDomain.StatusPending
	props, total, err := s.properties.List(ctx, propertyDomain.ListFilter{Status: &pending}, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending properties: %w", err)
	}

	dtos := make([]PropertyDTO, len(props))
	for i, p := range props {
		dtos[i] = toPropertyDTO(p, nil)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetDashboardStats returns aggregate counters for the admin dashboard.
func (s *AdminService) GetDashboardStats(ctx context.Context) (*DashboardStatsDTO, error) {
	propertyCounts, err := s.properties.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get property stats: %w", err)
	}
	bookingCounts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}
	revenue, err := s.bookings.SumRentByStatus(ctx, bookingDomain.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}
	pendingComplaints, err := s.complaints.CountByStatus(ctx, complaintDomain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint stats: %w", err)
	}

	stats := &DashboardStatsDTO{
		PendingProperties:  propertyCounts[string(propertyDomain.StatusPending)],
		PendingComplaints:  pendingComplaints,
		Revenue:            revenue,
		BookingsByStatus:   bookingCounts,
		PropertiesByStatus: propertyCounts,
	}
	for _, c := range propertyCounts {
		stats.TotalListings += c
	}
	for _, c := range bookingCounts {
		stats.TotalBookings += c
	}
	return stats, nil
}

// ListAuditLogs returns audit history, newest first.
func (s *AdminService) ListAuditLogs(ctx context.Context, page, limit int) (*domain.PaginatedResult[AuditLogDTO], error) {
	logs, total, err := s.audits.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]AuditLogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = toAuditLogDTO(l)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ExportBookings renders every booking into an .xlsx workbook.
func (s *AdminService) ExportBookings(ctx context.Context, adminID uuid.UUID, meta auditDomain.RequestMeta) ([]byte, error) {
	var rows []export.BookingRow
	names := make(map[uuid.UUID]string)

	for page := 1; ; page++ {
		bookings, total, err := s.bookings.ListAll(ctx, page, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings for export: %w", err)
		}
		for _, bk := range bookings {
			rows = append(rows, export.BookingRow{
				BookingID:       bk.ID().String(),
				TenantID:        bk.TenantID().String(),
				PropertyID:      bk.PropertyID().String(),
				PropertyName:    s.propertyName(ctx, names, bk.PropertyID()),
				RoomID:          bk.RoomID().String(),
				Status:          string(bk.Status()),
				MonthlyRent:     bk.MonthlyRent(),
				SecurityDeposit: bk.SecurityDeposit(),
				StartDate:       bk.StartDate(),
				EndDate:         bk.EndDate(),
				CreatedAt:       bk.CreatedAt(),
			})
		}
		if len(bookings) == 0 || int64(page*exportPageSize) >= total {
			break
		}
	}

	data, err := export.BookingsWorkbook(rows)
	if err != nil {
		return nil, err
	}

	s.record(ctx, adminID, auditDomain.ActionBookingExport, auditDomain.ResourceBooking, nil,
		map[string]any{"rows": len(rows)}, meta)
	return data, nil
}

// propertyName resolves names once per property; deleted properties export blank.
func (s *AdminService) propertyName(ctx context.Context, names map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := names[id]; ok {
		return name
	}
	name := ""
	if prop, err := s.properties.FindByID(ctx, id); err == nil {
		name = prop.Name()
	}
	names[id] = name
	return name
}

func (s *AdminService) record(ctx context.Context, adminID uuid.UUID, action auditDomain.Action, resource auditDomain.Resource, resourceID *uuid.UUID, details map[string]any, meta auditDomain.RequestMeta) {
	entry, err := auditDomain.NewLog(adminID, action, resource, resourceID, details, meta)
	if err == nil {
		err = s.audits.Save(ctx, entry)
	}
	if err != nil {
		s.logger.Error("failed to record audit log",
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}
