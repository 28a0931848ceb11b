package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID      uuid.UUID `gorm:"type:uuid;index;not null"`
	RoomType        string    `gorm:"not null;size:20"`
	Capacity        int       `gorm:"not null"`
	AvailableCount  int       `gorm:"not null"`
	MonthlyRent     int64     `gorm:"not null;index"`
	SecurityDeposit int64     `gorm:"not null"`
	Rules           []string  `gorm:"serializer:json;type:jsonb"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model), nil
}

// FindByPropertyID retrieves all rooms of a property.
func (r *GormRoomRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := conn(ctx, r.db).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find property rooms: %w", err)
	}

	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toDomainRoom(&models[i])
	}
	return rooms, nil
}

// FindByPropertyIDs retrieves the rooms of several properties in one query.
func (r *GormRoomRepository) FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) (map[uuid.UUID][]*roomDomain.Room, error) {
	grouped := make(map[uuid.UUID][]*roomDomain.Room, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return grouped, nil
	}

	var models []RoomModel
	if err := conn(ctx, r.db).
		Where("property_id IN ?", propertyIDs).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find rooms for properties: %w", err)
	}

	for i := range models {
		rm := toDomainRoom(&models[i])
		grouped[rm.PropertyID()] = append(grouped[rm.PropertyID()], rm)
	}
	return grouped, nil
}

// PropertyIDsWithRentBetween returns properties with at least one room in the rent range.
func (r *GormRoomRepository) PropertyIDsWithRentBetween(ctx context.Context, minRent, maxRent *int64) ([]uuid.UUID, error) {
	query := conn(ctx, r.db).Model(&RoomModel{}).Distinct("property_id")
	if minRent != nil {
		query = query.Where("monthly_rent >= ?", *minRent)
	}
	if maxRent != nil {
		query = query.Where("monthly_rent <= ?", *maxRent)
	}

	var ids []uuid.UUID
	if err := query.Pluck("property_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to find properties by rent: %w", err)
	}
	return ids, nil
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	model := toRoomModel(rm)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// ReplaceForProperty swaps the full room set of a property in one transaction.
// Available counts are overwritten with whatever the new rooms carry.
func (r *GormRoomRepository) ReplaceForProperty(ctx context.Context, propertyID uuid.UUID, rooms []*roomDomain.Room) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&RoomModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete property rooms: %w", err)
		}
		if len(rooms) == 0 {
			return nil
		}

		models := make([]*RoomModel, len(rooms))
		for i, rm := range rooms {
			models[i] = toRoomModel(rm)
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to create property rooms: %w", err)
		}
		return nil
	})
}

// DeleteByPropertyID removes every room of a property.
func (r *GormRoomRepository) DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error {
	if err := conn(ctx, r.db).Where("property_id = ?", propertyID).Delete(&RoomModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete property rooms: %w", err)
	}
	return nil
}

// DecrementAvailable reserves one unit with a single conditional UPDATE. The
// available_count > 0 predicate is evaluated by the database, so concurrent
// callers can never drive the count below zero.
func (r *GormRoomRepository) DecrementAvailable(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	result := conn(ctx, r.db).
		Model(&RoomModel{}).
		Where("id = ? AND available_count > 0", id).
		UpdateColumns(map[string]interface{}{
			"available_count": gorm.Expr("available_count - 1"),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to decrement room availability: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the room is gone or it is full.
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, roomDomain.ErrNoAvailability
	}

	return r.FindByID(ctx, id)
}

// IncrementAvailable releases one unit.
func (r *GormRoomRepository) IncrementAvailable(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).
		Model(&RoomModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"available_count": gorm.Expr("available_count + 1"),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increment room availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toRoomModel(rm *roomDomain.Room) *RoomModel {
	return &RoomModel{
		ID:              rm.ID(),
		PropertyID:      rm.PropertyID(),
		RoomType:        string(rm.RoomType()),
		Capacity:        rm.Capacity(),
		AvailableCount:  rm.AvailableCount(),
		MonthlyRent:     rm.MonthlyRent(),
		SecurityDeposit: rm.SecurityDeposit(),
		Rules:           rm.Rules(),
		CreatedAt:       rm.CreatedAt(),
		UpdatedAt:       rm.UpdatedAt(),
	}
}

func toDomainRoom(m *RoomModel) *roomDomain.Room {
	rules := m.Rules
	if rules == nil {
		rules = []string{}
	}
	return roomDomain.Reconstruct(
		m.ID,
		m.PropertyID,
		roomDomain.RoomType(m.RoomType),
		m.Capacity,
		m.AvailableCount,
		m.MonthlyRent,
		m.SecurityDeposit,
		rules,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
