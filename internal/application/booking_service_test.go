package application

import (
	"context"
	"errors"
	"testing"
	"time"

	auditDomain "github.com/campusnest/service-housing/internal/domain/audit"
	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	bookings   *mockBookingRepo
	rooms      *mockRoomRepo
	properties *mockPropertyRepo
	audits     *mockAuditRepo
	publisher  *mockPublisher
	cache      *mockCache
	tx         *inlineTx
	svc        *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings:   new(mockBookingRepo),
		rooms:      new(mockRoomRepo),
		properties: new(mockPropertyRepo),
		audits:     new(mockAuditRepo),
		publisher:  new(mockPublisher),
		cache:      new(mockCache),
		tx:         new(inlineTx),
	}
	f.svc = NewBookingService(f.bookings, f.rooms, f.properties, f.audits, f.tx, f.publisher, f.cache, zap.NewNop())
	return f
}

func (f *bookingFixture) assertExpectations(t *testing.T) {
	f.bookings.AssertExpectations(t)
	f.rooms.AssertExpectations(t)
	f.properties.AssertExpectations(t)
	f.audits.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func testProperty(ownerID uuid.UUID, status propertyDomain.PropertyStatus) *propertyDomain.Property {
	now := time.Now()
	return propertyDomain.Reconstruct(uuid.New(), ownerID, "Sunrise PG", "City College", 1.2,
		[]string{"wifi"}, []string{}, status, "", now, now)
}

func testRoom(propertyID uuid.UUID, capacity, available int) *roomDomain.Room {
	now := time.Now()
	return roomDomain.Reconstruct(uuid.New(), propertyID, roomDomain.RoomTypeSharing, capacity, available,
		800000, 1600000, nil, now, now)
}

func testBooking(tenantID uuid.UUID, rm *roomDomain.Room, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	now := time.Now()
	return bookingDomain.ReconstructBooking(uuid.New(), tenantID, rm.PropertyID(), rm.ID(), status,
		rm.MonthlyRent(), rm.SecurityDeposit(), now.Add(48*time.Hour), nil, "", nil, 1, now, now)
}

func withAvailable(rm *roomDomain.Room, available int) *roomDomain.Room {
	return roomDomain.Reconstruct(rm.ID(), rm.PropertyID(), rm.RoomType(), rm.Capacity(), available,
		rm.MonthlyRent(), rm.SecurityDeposit(), rm.Rules(), rm.CreatedAt(), time.Now())
}

func TestUpdateBookingStatus_ConcurrentApprovalsForLastUnit(t *testing.T) {
	f := newBookingFixture()
	ownerID := uuid.New()
	prop := testProperty(ownerID, propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 2, 1)
	first := testBooking(uuid.New(), rm, bookingDomain.StatusPending)
	second := testBooking(uuid.New(), rm, bookingDomain.StatusPending)
	owner := Actor{ID: ownerID, Role: auth.RoleOwner}

	f.bookings.On("FindByID", mock.Anything, first.ID()).Return(first, nil)
	f.bookings.On("FindByID", mock.Anything, second.ID()).Return(second, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
	f.rooms.On("DecrementAvailable", mock.Anything, rm.ID()).Return(withAvailable(rm, 0), nil).Once()
	f.rooms.On("DecrementAvailable", mock.Anything, rm.ID()).Return(nil, roomDomain.ErrNoAvailability).Once()
	f.bookings.On("Update", mock.Anything, first).Return(nil)
	f.cache.On("Invalidate", mock.Anything, prop.ID()).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingApproved)).Return(nil)

	got, err := f.svc.UpdateBookingStatus(context.Background(), owner, first.ID(), UpdateBookingStatusRequest{Status: "approved"}, auditDomain.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)

	_, err = f.svc.UpdateBookingStatus(context.Background(), owner, second.ID(), UpdateBookingStatusRequest{Status: "approved"}, auditDomain.RequestMeta{})
	assert.True(t, domain.IsKind(err, domain.KindCapacityExhausted))
	assert.Equal(t, bookingDomain.StatusPending, second.Status())

	f.bookings.AssertNumberOfCalls(t, "Update", 1)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_TenantCancelsPending(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 1, 1)
	bk := testBooking(tenantID, rm, bookingDomain.StatusPending)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.bookings.On("Update", mock.Anything, bk).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingCancelled)).Return(nil)

	got, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: tenantID, Role: auth.RoleTenant}, bk.ID(),
		UpdateBookingStatusRequest{Status: "cancelled"}, auditDomain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, int64(2), got.Version)
	f.rooms.AssertNotCalled(t, "IncrementAvailable", mock.Anything, mock.Anything)
	f.properties.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_OwnerCancelsApprovedReleasesUnit(t *testing.T) {
	f := newBookingFixture()
	ownerID := uuid.New()
	prop := testProperty(ownerID, propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 1, 0)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusApproved)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
	f.rooms.On("IncrementAvailable", mock.Anything, rm.ID()).Return(nil).Once()
	f.bookings.On("Update", mock.Anything, bk).Return(nil)
	f.cache.On("Invalidate", mock.Anything, prop.ID()).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingCancelled)).Return(nil)

	got, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: ownerID, Role: auth.RoleOwner}, bk.ID(),
		UpdateBookingStatusRequest{Status: "cancelled"}, auditDomain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_NonOwnerCannotApprove(t *testing.T) {
	f := newBookingFixture()
	prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 1, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)

	for _, actor := range []Actor{
		{ID: uuid.New(), Role: auth.RoleOwner},
		{ID: bk.TenantID(), Role: auth.RoleTenant},
	} {
		_, err := f.svc.UpdateBookingStatus(context.Background(), actor, bk.ID(),
			UpdateBookingStatusRequest{Status: "approved"}, auditDomain.RequestMeta{})
		assert.True(t, domain.IsKind(err, domain.KindForbidden), "role %s", actor.Role)
	}

	assert.Equal(t, bookingDomain.StatusPending, bk.Status())
	f.rooms.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_UnknownStatusTouchesNothing(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: uuid.New(), Role: auth.RoleAdmin}, uuid.New(),
		UpdateBookingStatusRequest{Status: "shipped"}, auditDomain.RequestMeta{})

	assert.True(t, domain.IsKind(err, domain.KindValidation))
	f.bookings.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.rooms.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
	f.rooms.AssertNotCalled(t, "IncrementAvailable", mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_PendingIsNotRequestable(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: uuid.New(), Role: auth.RoleAdmin}, uuid.New(),
		UpdateBookingStatusRequest{Status: "pending"}, auditDomain.RequestMeta{})

	assert.True(t, domain.IsKind(err, domain.KindValidation))
	f.bookings.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_ApproveTwiceIsNoOp(t *testing.T) {
	f := newBookingFixture()
	ownerID := uuid.New()
	prop := testProperty(ownerID, propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 2, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusApproved)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)

	got, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: ownerID, Role: auth.RoleOwner}, bk.ID(),
		UpdateBookingStatusRequest{Status: "approved"}, auditDomain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
	assert.Equal(t, int64(1), got.Version)
	f.rooms.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_ApproveThenCancelRestoresCount(t *testing.T) {
	f := newBookingFixture()
	prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 3, 2)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)
	admin := Actor{ID: uuid.New(), Role: auth.RoleAdmin}

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.rooms.On("DecrementAvailable", mock.Anything, rm.ID()).Return(withAvailable(rm, 1), nil).Once()
	f.rooms.On("IncrementAvailable", mock.Anything, rm.ID()).Return(nil).Once()
	f.bookings.On("Update", mock.Anything, bk).Return(nil).Twice()
	f.cache.On("Invalidate", mock.Anything, prop.ID()).Return(nil).Twice()
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, mock.Anything).Return(nil).Twice()
	f.audits.On("Save", mock.Anything, mock.MatchedBy(func(l *auditDomain.Log) bool {
		return l.Action() == auditDomain.ActionBookingModify && l.IPAddress() == "10.0.0.1"
	})).Return(nil).Twice()

	meta := auditDomain.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "test"}
	_, err := f.svc.UpdateBookingStatus(context.Background(), admin, bk.ID(), UpdateBookingStatusRequest{Status: "approved"}, meta)
	require.NoError(t, err)
	got, err := f.svc.UpdateBookingStatus(context.Background(), admin, bk.ID(), UpdateBookingStatusRequest{Status: "cancelled"}, meta)
	require.NoError(t, err)

	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, int64(3), got.Version)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []bookingDomain.BookingStatus{
		bookingDomain.StatusRejected, bookingDomain.StatusCompleted, bookingDomain.StatusCancelled,
	} {
		t.Run(string(from), func(t *testing.T) {
			f := newBookingFixture()
			rm := testRoom(uuid.New(), 1, 1)
			bk := testBooking(uuid.New(), rm, from)
			f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

			_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: uuid.New(), Role: auth.RoleAdmin}, bk.ID(),
				UpdateBookingStatusRequest{Status: "approved"}, auditDomain.RequestMeta{})

			assert.True(t, domain.IsKind(err, domain.KindInvalidState))
			f.rooms.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateBookingStatus_PendingCannotComplete(t *testing.T) {
	f := newBookingFixture()
	rm := testRoom(uuid.New(), 1, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)
	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: uuid.New(), Role: auth.RoleAdmin}, bk.ID(),
		UpdateBookingStatusRequest{Status: "completed"}, auditDomain.RequestMeta{})

	assert.True(t, domain.IsKind(err, domain.KindInvalidState))
}

func TestUpdateBookingStatus_RejectKeepsRoomAndReason(t *testing.T) {
	f := newBookingFixture()
	ownerID := uuid.New()
	prop := testProperty(ownerID, propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 1, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
	f.bookings.On("Update", mock.Anything, bk).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingRejected)).Return(nil)

	got, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: ownerID, Role: auth.RoleOwner}, bk.ID(),
		UpdateBookingStatusRequest{Status: "rejected", RejectionReason: "Room under repair"}, auditDomain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "Room under repair", got.RejectionReason)
	f.rooms.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_BookingWriteFailureSharesRoomTransaction(t *testing.T) {
	f := newBookingFixture()
	ownerID := uuid.New()
	prop := testProperty(ownerID, propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 1, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)
	writeErr := domain.NewConflictError("booking was modified concurrently")

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
	f.rooms.On("DecrementAvailable", mock.Anything, rm.ID()).Return(withAvailable(rm, 0), nil).Once()
	f.bookings.On("Update", mock.Anything, bk).Return(writeErr)

	_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: ownerID, Role: auth.RoleOwner}, bk.ID(),
		UpdateBookingStatusRequest{Status: "approved"}, auditDomain.RequestMeta{})

	assert.ErrorIs(t, err, writeErr)
	// Decrement and booking write ran as one unit; the store rolls both back.
	assert.Equal(t, 1, f.tx.units)
	f.rooms.AssertNotCalled(t, "IncrementAvailable", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_CancelAfterRoomRemoved(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	rm := testRoom(uuid.New(), 1, 0)
	bk := testBooking(tenantID, rm, bookingDomain.StatusApproved)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.rooms.On("IncrementAvailable", mock.Anything, rm.ID()).Return(domain.NewNotFoundError("Room", rm.ID().String())).Once()
	f.bookings.On("Update", mock.Anything, bk).Return(nil)
	f.cache.On("Invalidate", mock.Anything, rm.PropertyID()).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingCancelled)).Return(nil)

	got, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: tenantID, Role: auth.RoleTenant}, bk.ID(),
		UpdateBookingStatusRequest{Status: "cancelled"}, auditDomain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_ReleaseStorageErrorAbortsCancel(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	rm := testRoom(uuid.New(), 1, 0)
	bk := testBooking(tenantID, rm, bookingDomain.StatusApproved)
	dbErr := errors.New("connection reset")

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.rooms.On("IncrementAvailable", mock.Anything, rm.ID()).Return(dbErr).Once()

	_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: tenantID, Role: auth.RoleTenant}, bk.ID(),
		UpdateBookingStatusRequest{Status: "cancelled"}, auditDomain.RequestMeta{})

	assert.ErrorIs(t, err, dbErr)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUpdateBookingStatus_PublishFailureDoesNotFail(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	rm := testRoom(uuid.New(), 1, 1)
	bk := testBooking(tenantID, rm, bookingDomain.StatusPending)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.bookings.On("Update", mock.Anything, bk).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := f.svc.UpdateBookingStatus(context.Background(), Actor{ID: tenantID, Role: auth.RoleTenant}, bk.ID(),
		UpdateBookingStatusRequest{Status: "cancelled"}, auditDomain.RequestMeta{})

	require.NoError(t, err)
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 2, 1)

	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
	f.rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
	f.bookings.On("HasActiveBooking", mock.Anything, tenantID, rm.ID()).Return(false, nil)
	f.bookings.On("Save", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingRequested)).Return(nil)

	got, err := f.svc.CreateBooking(context.Background(), Actor{ID: tenantID, Role: auth.RoleTenant}, CreateBookingRequest{
		PropertyID: prop.ID(),
		RoomID:     rm.ID(),
		StartDate:  time.Now().Add(72 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, rm.MonthlyRent(), got.MonthlyRent)
	f.rooms.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateBooking_Rejections(t *testing.T) {
	tenant := Actor{ID: uuid.New(), Role: auth.RoleTenant}
	start := time.Now().Add(24 * time.Hour)

	t.Run("owner cannot book", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.CreateBooking(context.Background(), Actor{ID: uuid.New(), Role: auth.RoleOwner}, CreateBookingRequest{StartDate: start})
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("unlisted property", func(t *testing.T) {
		f := newBookingFixture()
		prop := testProperty(uuid.New(), propertyDomain.StatusPending)
		f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)

		_, err := f.svc.CreateBooking(context.Background(), tenant, CreateBookingRequest{PropertyID: prop.ID(), RoomID: uuid.New(), StartDate: start})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("room of another property", func(t *testing.T) {
		f := newBookingFixture()
		prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
		rm := testRoom(uuid.New(), 1, 1)
		f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
		f.rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)

		_, err := f.svc.CreateBooking(context.Background(), tenant, CreateBookingRequest{PropertyID: prop.ID(), RoomID: rm.ID(), StartDate: start})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("no availability", func(t *testing.T) {
		f := newBookingFixture()
		prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
		rm := testRoom(prop.ID(), 1, 0)
		f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
		f.rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)

		_, err := f.svc.CreateBooking(context.Background(), tenant, CreateBookingRequest{PropertyID: prop.ID(), RoomID: rm.ID(), StartDate: start})
		assert.True(t, domain.IsKind(err, domain.KindCapacityExhausted))
	})

	t.Run("duplicate active booking", func(t *testing.T) {
		f := newBookingFixture()
		prop := testProperty(uuid.New(), propertyDomain.StatusApproved)
		rm := testRoom(prop.ID(), 1, 1)
		f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)
		f.rooms.On("FindByID", mock.Anything, rm.ID()).Return(rm, nil)
		f.bookings.On("HasActiveBooking", mock.Anything, tenant.ID, rm.ID()).Return(true, nil)

		_, err := f.svc.CreateBooking(context.Background(), tenant, CreateBookingRequest{PropertyID: prop.ID(), RoomID: rm.ID(), StartDate: start})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		f.bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGetBooking_Visibility(t *testing.T) {
	f := newBookingFixture()
	ownerID := uuid.New()
	prop := testProperty(ownerID, propertyDomain.StatusApproved)
	rm := testRoom(prop.ID(), 1, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)

	f.bookings.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	f.properties.On("FindByID", mock.Anything, prop.ID()).Return(prop, nil)

	_, err := f.svc.GetBooking(context.Background(), Actor{ID: bk.TenantID(), Role: auth.RoleTenant}, bk.ID())
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(context.Background(), Actor{ID: ownerID, Role: auth.RoleOwner}, bk.ID())
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(context.Background(), Actor{ID: uuid.New(), Role: auth.RoleTenant}, bk.ID())
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestListBookings_ScopedByRole(t *testing.T) {
	f := newBookingFixture()
	rm := testRoom(uuid.New(), 1, 1)
	bk := testBooking(uuid.New(), rm, bookingDomain.StatusPending)
	ownerID := uuid.New()
	propertyIDs := []uuid.UUID{rm.PropertyID()}

	f.bookings.On("ListAll", mock.Anything, 1, 20).Return([]*bookingDomain.Booking{bk}, int64(1), nil)
	f.properties.On("IDsByOwner", mock.Anything, ownerID).Return(propertyIDs, nil)
	f.bookings.On("FindByPropertyIDs", mock.Anything, propertyIDs, 1, 20).Return([]*bookingDomain.Booking{bk}, int64(1), nil)
	f.bookings.On("FindByTenantID", mock.Anything, bk.TenantID(), 1, 20).Return([]*bookingDomain.Booking{bk}, int64(1), nil)

	for _, actor := range []Actor{
		{ID: uuid.New(), Role: auth.RoleAdmin},
		{ID: ownerID, Role: auth.RoleOwner},
		{ID: bk.TenantID(), Role: auth.RoleTenant},
	} {
		res, err := f.svc.ListBookings(context.Background(), actor, 1, 20)
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
	}
	f.assertExpectations(t)
}

func TestCancelActiveBookingsForUser(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	rm := testRoom(uuid.New(), 2, 1)
	pending := testBooking(tenantID, rm, bookingDomain.StatusPending)
	approved := testBooking(tenantID, rm, bookingDomain.StatusApproved)

	f.bookings.On("FindActiveByTenantID", mock.Anything, tenantID).Return([]*bookingDomain.Booking{pending, approved}, nil)
	f.rooms.On("IncrementAvailable", mock.Anything, rm.ID()).Return(nil).Once()
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil).Twice()
	f.cache.On("Invalidate", mock.Anything, rm.PropertyID()).Return(nil).Once()
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingCancelled)).Return(nil).Twice()

	n, err := f.svc.CancelActiveBookingsForUser(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, bookingDomain.StatusCancelled, pending.Status())
	assert.Equal(t, bookingDomain.StatusCancelled, approved.Status())
	f.audits.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCancelActiveBookingsForUser_ContinuesPastRemovedRoom(t *testing.T) {
	f := newBookingFixture()
	tenantID := uuid.New()
	gone := testRoom(uuid.New(), 1, 0)
	kept := testRoom(uuid.New(), 2, 1)
	onGone := testBooking(tenantID, gone, bookingDomain.StatusApproved)
	onKept := testBooking(tenantID, kept, bookingDomain.StatusApproved)

	f.bookings.On("FindActiveByTenantID", mock.Anything, tenantID).Return([]*bookingDomain.Booking{onGone, onKept}, nil)
	f.rooms.On("IncrementAvailable", mock.Anything, gone.ID()).Return(domain.NewNotFoundError("Room", gone.ID().String())).Once()
	f.rooms.On("IncrementAvailable", mock.Anything, kept.ID()).Return(nil).Once()
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil).Twice()
	f.cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Twice()
	f.publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingCancelled)).Return(nil).Twice()

	n, err := f.svc.CancelActiveBookingsForUser(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, bookingDomain.StatusCancelled, onGone.Status())
	assert.Equal(t, bookingDomain.StatusCancelled, onKept.Status())
	f.assertExpectations(t)
}
