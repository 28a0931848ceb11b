package application

import (
	"context"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	complaintDomain "github.com/campusnest/service-housing/internal/domain/complaint"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	reviewDomain "github.com/campusnest/service-housing/internal/domain/review"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	wishlistDomain "github.com/campusnest/service-housing/internal/domain/wishlist"
	"github.com/campusnest/service-housing/internal/platform/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	bk, _ := args.Get(0).(*bookingDomain.Booking)
	return bk, args.Error(1)
}

func (m *mockBookingRepo) FindByTenantID(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, tenantID, page, limit)
	bks, _ := args.Get(0).([]*bookingDomain.Booking)
	return bks, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, propertyIDs, page, limit)
	bks, _ := args.Get(0).([]*bookingDomain.Booking)
	return bks, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, page, limit)
	bks, _ := args.Get(0).([]*bookingDomain.Booking)
	return bks, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) HasActiveBooking(ctx context.Context, tenantID, roomID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) HasCompletedBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) FindActiveByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, tenantID)
	bks, _ := args.Get(0).([]*bookingDomain.Booking)
	return bks, args.Error(1)
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

func (m *mockBookingRepo) SumRentByStatus(ctx context.Context, status bookingDomain.BookingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

func (m *mockBookingRepo) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

type mockRoomRepo struct{ mock.Mock }

func (m *mockRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	args := m.Called(ctx, id)
	rm, _ := args.Get(0).(*roomDomain.Room)
	return rm, args.Error(1)
}

func (m *mockRoomRepo) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*roomDomain.Room, error) {
	args := m.Called(ctx, propertyID)
	rooms, _ := args.Get(0).([]*roomDomain.Room)
	return rooms, args.Error(1)
}

func (m *mockRoomRepo) FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) (map[uuid.UUID][]*roomDomain.Room, error) {
	args := m.Called(ctx, propertyIDs)
	grouped, _ := args.Get(0).(map[uuid.UUID][]*roomDomain.Room)
	return grouped, args.Error(1)
}

func (m *mockRoomRepo) PropertyIDsWithRentBetween(ctx context.Context, minRent, maxRent *int64) ([]uuid.UUID, error) {
	args := m.Called(ctx, minRent, maxRent)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockRoomRepo) Save(ctx context.Context, rm *roomDomain.Room) error {
	return m.Called(ctx, rm).Error(0)
}

func (m *mockRoomRepo) ReplaceForProperty(ctx context.Context, propertyID uuid.UUID, rooms []*roomDomain.Room) error {
	return m.Called(ctx, propertyID, rooms).Error(0)
}

func (m *mockRoomRepo) DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error {
	return m.Called(ctx, propertyID).Error(0)
}

func (m *mockRoomRepo) DecrementAvailable(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	args := m.Called(ctx, id)
	rm, _ := args.Get(0).(*roomDomain.Room)
	return rm, args.Error(1)
}

func (m *mockRoomRepo) IncrementAvailable(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPropertyRepo struct{ mock.Mock }

func (m *mockPropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*propertyDomain.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) List(ctx context.Context, filter propertyDomain.ListFilter, page, limit int) ([]*propertyDomain.Property, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	props, _ := args.Get(0).([]*propertyDomain.Property)
	return props, args.Get(1).(int64), args.Error(2)
}

func (m *mockPropertyRepo) IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ownerID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockPropertyRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

func (m *mockPropertyRepo) Save(ctx context.Context, p *propertyDomain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *propertyDomain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Save(ctx context.Context, l *auditDomain.Log) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, page, limit int) ([]*auditDomain.Log, int64, error) {
	args := m.Called(ctx, page, limit)
	logs, _ := args.Get(0).([]*auditDomain.Log)
	return logs, args.Get(1).(int64), args.Error(2)
}

// inlineTx runs the unit of work directly and counts how often it was asked to.
type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) Save(ctx context.Context, r *reviewDomain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReviewRepo) Update(ctx context.Context, r *reviewDomain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*reviewDomain.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) Exists(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) List(ctx context.Context, propertyID *uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	args := m.Called(ctx, propertyID, page, limit)
	rs, _ := args.Get(0).([]*reviewDomain.Review)
	return rs, args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepo) Summarize(ctx context.Context, propertyID uuid.UUID) (reviewDomain.Summary, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(reviewDomain.Summary), args.Error(1)
}

type mockWishlistRepo struct{ mock.Mock }

func (m *mockWishlistRepo) Save(ctx context.Context, item *wishlistDomain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockWishlistRepo) FindByID(ctx context.Context, id uuid.UUID) (*wishlistDomain.Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*wishlistDomain.Item)
	return item, args.Error(1)
}

func (m *mockWishlistRepo) Exists(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepo) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*wishlistDomain.Item, error) {
	args := m.Called(ctx, tenantID)
	items, _ := args.Get(0).([]*wishlistDomain.Item)
	return items, args.Error(1)
}

func (m *mockWishlistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockComplaintRepo struct{ mock.Mock }

func (m *mockComplaintRepo) Save(ctx context.Context, c *complaintDomain.Complaint) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockComplaintRepo) Update(ctx context.Context, c *complaintDomain.Complaint) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockComplaintRepo) FindByID(ctx context.Context, id uuid.UUID) (*complaintDomain.Complaint, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*complaintDomain.Complaint)
	return c, args.Error(1)
}

func (m *mockComplaintRepo) List(ctx context.Context, filter complaintDomain.ListFilter, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	cs, _ := args.Get(0).([]*complaintDomain.Complaint)
	return cs, args.Get(1).(int64), args.Error(2)
}

func (m *mockComplaintRepo) CountByStatus(ctx context.Context, status complaintDomain.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type inlineTx struct{ units int }

func (t *inlineTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.units++
	return fn(ctx)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, id uuid.UUID, dest any) (bool, error) {
	args := m.Called(ctx, id, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, id uuid.UUID, value any) error {
	return m.Called(ctx, id, value).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// eventOfType matches a CloudEvent by its type attribute.
func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.CloudEvent) bool { return e.Type == eventType })
}
