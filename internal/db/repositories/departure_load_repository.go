package repositories

import (
	"context"
	"fmt"

	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepartureLoadRepository maintains the per-departure sold counter.
type DepartureLoadRepository struct {
	db *gorm.DB
}

func NewDepartureLoadRepository(db *gorm.DB) *DepartureLoadRepository {
	return &DepartureLoadRepository{db: db}
}

func (r *DepartureLoadRepository) WithTx(tx *gorm.DB) *DepartureLoadRepository {
	return &DepartureLoadRepository{db: tx}
}

// Lock creates the row when missing and reads it FOR UPDATE. Concurrent
// writers of the same departure queue on this row until commit.
func (r *DepartureLoadRepository) Lock(ctx context.Context, key DepartureKey) (*gormModels.DepartureLoad, error) {
	db := r.db.WithContext(ctx)
	load := gormModels.DepartureLoad{
		RouteID:       key.RouteID,
		VesselID:      key.VesselID,
		TravelDate:    key.Date,
		DepartureTime: key.Time,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&load).Error; err != nil {
		return nil, fmt.Errorf("failed to init departure load: %w", err)
	}
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("route_id = ? AND vessel_id = ? AND travel_date = ? AND departure_time = ?",
			key.RouteID, key.VesselID, key.Date, key.Time).
		First(&load).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock departure load: %w", err)
	}
	return &load, nil
}

// Add moves the sold counter by delta. The CHECK constraint rejects a
// negative result.
func (r *DepartureLoadRepository) Add(ctx context.Context, key DepartureKey, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.DepartureLoad{}).
		Where("route_id = ? AND vessel_id = ? AND travel_date = ? AND departure_time = ?",
			key.RouteID, key.VesselID, key.Date, key.Time).
		Update("sold", gorm.Expr("sold + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to update departure load: %w", err)
	}
	return nil
}

// ListSince returns loads with travel date on or after fromDate.
func (r *DepartureLoadRepository) ListSince(ctx context.Context, fromDate string) ([]gormModels.DepartureLoad, error) {
	var out []gormModels.DepartureLoad
	if err := r.db.WithContext(ctx).Where("travel_date >= ?", fromDate).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list departure loads: %w", err)
	}
	return out, nil
}

// Set overwrites the counter of a departure, creating the row when needed.
func (r *DepartureLoadRepository) Set(ctx context.Context, key DepartureKey, sold int) error {
	load := gormModels.DepartureLoad{
		RouteID:       key.RouteID,
		VesselID:      key.VesselID,
		TravelDate:    key.Date,
		DepartureTime: key.Time,
		Sold:          sold,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "route_id"}, {Name: "vessel_id"}, {Name: "travel_date"}, {Name: "departure_time"}},
		DoUpdates: clause.AssignmentColumns([]string{"sold", "updated_at"}),
	}).Create(&load).Error
	if err != nil {
		return fmt.Errorf("failed to set departure load: %w", err)
	}
	return nil
}
