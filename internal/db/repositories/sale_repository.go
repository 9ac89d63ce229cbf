package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepartureKey identifies one departure instance.
type DepartureKey struct {
	RouteID  string
	VesselID string
	Date     string
	Time     string
}

// LockKey is the departure's key in the departure locker.
func (k DepartureKey) LockKey() string {
	return k.RouteID + "|" + k.VesselID + "|" + k.Date + "|" + k.Time
}

// SaleRepository handles sales, their payments and sale numbering.
type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) WithTx(tx *gorm.DB) *SaleRepository {
	return &SaleRepository{db: tx}
}

// Create inserts the sale and its payment rows.
func (r *SaleRepository) Create(ctx context.Context, s *gormModels.Sale) error {
	if err := r.db.WithContext(ctx).Omit("Client").Create(s).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (*gormModels.Sale, error) {
	return r.getWhere(ctx, r.db, "id = ?", id)
}

func (r *SaleRepository) GetByNumber(ctx context.Context, number string) (*gormModels.Sale, error) {
	return r.getWhere(ctx, r.db, "sale_number = ?", number)
}

// LockByID reads the sale with a row lock.
func (r *SaleRepository) LockByID(ctx context.Context, id string) (*gormModels.Sale, error) {
	return first[gormModels.Sale](ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "sale", "id = ?", id)
}

func (r *SaleRepository) getWhere(ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*gormModels.Sale, error) {
	var s gormModels.Sale
	err := db.WithContext(ctx).Preload("Payments").Where(query, args...).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch sale: %w", err)
	}
	return &s, nil
}

// UpdateStatus records a status transition.
func (r *SaleRepository) UpdateStatus(ctx context.Context, id string, status constants.SaleStatus, reason, actor string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"status_reason":     reason,
			"status_changed_at": at,
			"status_changed_by": actor,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update sale status: %w", err)
	}
	return nil
}

// SumConfirmed returns the passengers of CONFIRMED sales on the departure.
func (r *SaleRepository) SumConfirmed(ctx context.Context, key DepartureKey) (int, error) {
	var sold int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Sale{}).
		Select("COALESCE(SUM(passenger_count), 0)").
		Where("route_id = ? AND vessel_id = ? AND travel_date = ? AND travel_time = ? AND status = ?",
			key.RouteID, key.VesselID, key.Date, key.Time, constants.SaleConfirmed).
		Scan(&sold).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum sold seats: %w", err)
	}
	return int(sold), nil
}

// ConfirmedLoad is the CONFIRMED passenger total of one departure.
type ConfirmedLoad struct {
	RouteID    string
	VesselID   string
	TravelDate string
	TravelTime string
	Sold       int
}

// ConfirmedLoadsSince groups CONFIRMED sales with travel date on or after
// fromDate by departure.
func (r *SaleRepository) ConfirmedLoadsSince(ctx context.Context, fromDate string) ([]ConfirmedLoad, error) {
	var out []ConfirmedLoad
	err := r.db.WithContext(ctx).
		Model(&gormModels.Sale{}).
		Select("route_id, vessel_id, travel_date, travel_time, SUM(passenger_count) AS sold").
		Where("status = ? AND travel_date >= ?", constants.SaleConfirmed, fromDate).
		Group("route_id, vessel_id, travel_date, travel_time").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate confirmed loads: %w", err)
	}
	return out, nil
}

// NextSaleNumber increments and returns the counter for year. It must run in
// the admission transaction.
func (r *SaleRepository) NextSaleNumber(ctx context.Context, year int) (int64, error) {
	db := r.db.WithContext(ctx)

	seq := gormModels.SaleSequence{Year: year}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to init sale sequence: %w", err)
	}
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("year = ?", year).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to lock sale sequence: %w", err)
	}
	seq.LastValue++
	if err := db.Model(&gormModels.SaleSequence{}).Where("year = ?", year).Update("last_value", seq.LastValue).Error; err != nil {
		return 0, fmt.Errorf("failed to advance sale sequence: %w", err)
	}
	return seq.LastValue, nil
}
