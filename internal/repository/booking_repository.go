package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var activeStatuses = []string{
	string(bookingDomain.StatusPending),
	string(bookingDomain.StatusApproved),
}

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	PropertyID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	RoomID          uuid.UUID  `gorm:"type:uuid;index;not null"`
	Status          string     `gorm:"not null;size:20;index"`
	MonthlyRent     int64      `gorm:"not null"`
	SecurityDeposit int64      `gorm:"not null"`
	StartDate       time.Time  `gorm:"not null"`
	EndDate         *time.Time `gorm:""`
	RejectionReason string     `gorm:"size:500"`
	DecidedAt       *time.Time `gorm:""`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByTenantID retrieves a tenant's bookings with pagination.
func (r *GormBookingRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.paginate(ctx, page, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	})
}

// FindByPropertyIDs retrieves bookings on the given properties with pagination.
func (r *GormBookingRepository) FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	if len(propertyIDs) == 0 {
		return []*bookingDomain.Booking{}, 0, nil
	}
	return r.paginate(ctx, page, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("property_id IN ?", propertyIDs)
	})
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.paginate(ctx, page, limit, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *GormBookingRepository) paginate(ctx context.Context, page, limit int, scope func(*gorm.DB) *gorm.DB) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&BookingModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := conn(ctx, r.db).
		Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// HasActiveBooking reports whether the tenant already holds a pending or
// approved booking for the room.
func (r *GormBookingRepository) HasActiveBooking(ctx context.Context, tenantID, roomID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&BookingModel{}).
		Where("tenant_id = ? AND room_id = ? AND status IN ?", tenantID, roomID, activeStatuses).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check active bookings: %w", err)
	}
	return count > 0, nil
}

// HasCompletedBooking reports whether the tenant has a completed booking at the property.
func (r *GormBookingRepository) HasCompletedBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&BookingModel{}).
		Where("tenant_id = ? AND property_id = ? AND status = ?", tenantID, propertyID, string(bookingDomain.StatusCompleted)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check completed bookings: %w", err)
	}
	return count > 0, nil
}

// FindActiveByTenantID returns every pending or approved booking of a tenant.
func (r *GormBookingRepository) FindActiveByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND status IN ?", tenantID, activeStatuses).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}
	return toDomainBookings(models)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := conn(ctx, r.db).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// SumRentByStatus returns the summed monthly rent of bookings in a status.
func (r *GormBookingRepository) SumRentByStatus(ctx context.Context, status bookingDomain.BookingStatus) (int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&BookingModel{}).
		Select("COALESCE(SUM(monthly_rent), 0)").
		Where("status = ?", string(status)).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum booking rent: %w", err)
	}
	return total, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := conn(ctx, r.db).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the stored version is the one before IncrementVersion was called.
	expectedVersion := bk.Version() - 1
	result := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"end_date":         model.EndDate,
			"rejection_reason": model.RejectionReason,
			"decided_at":       model.DecidedAt,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              bk.ID(),
		TenantID:        bk.TenantID(),
		PropertyID:      bk.PropertyID(),
		RoomID:          bk.RoomID(),
		Status:          string(bk.Status()),
		MonthlyRent:     bk.MonthlyRent(),
		SecurityDeposit: bk.SecurityDeposit(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		RejectionReason: bk.RejectionReason(),
		DecidedAt:       bk.DecidedAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.TenantID,
		m.PropertyID,
		m.RoomID,
		status,
		m.MonthlyRent,
		m.SecurityDeposit,
		m.StartDate,
		m.EndDate,
		m.RejectionReason,
		m.DecidedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
