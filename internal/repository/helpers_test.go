package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory SQLite database. A single
// connection keeps the shared-cache database alive and serializes writers.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&PropertyModel{}, &RoomModel{}, &BookingModel{}, &AuditLogModel{},
		&ReviewModel{}, &WishlistItemModel{}, &ComplaintModel{},
	))
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, approved bool) *propertyDomain.Property {
	t.Helper()
	p, err := propertyDomain.NewProperty(uuid.New(), propertyDomain.Details{
		Name:                "Green Nest",
		NearestCollege:      "Delhi University",
		DistanceFromCollege: 0.8,
		Facilities:          []string{"wifi", "mess"},
	})
	require.NoError(t, err)
	if approved {
		require.NoError(t, p.Approve())
	}
	require.NoError(t, NewGormPropertyRepository(db).Save(context.Background(), p))
	return p
}

func seedRoom(t *testing.T, db *gorm.DB, propertyID uuid.UUID, capacity, available int, rent int64) *roomDomain.Room {
	t.Helper()
	r, err := roomDomain.NewRoom(propertyID, roomDomain.Spec{
		RoomType:        roomDomain.RoomTypeSharing,
		Capacity:        capacity,
		AvailableCount:  available,
		MonthlyRent:     rent,
		SecurityDeposit: rent * 2,
		Rules:           []string{"no smoking"},
	})
	require.NoError(t, err)
	require.NoError(t, NewGormRoomRepository(db).Save(context.Background(), r))
	return r
}

func seedBooking(t *testing.T, db *gorm.DB, r *roomDomain.Room) *bookingDomain.Booking {
	t.Helper()
	b, err := bookingDomain.NewBooking(uuid.New(), r, time.Now().Add(48*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, NewGormBookingRepository(db).Save(context.Background(), b))
	return b
}
