package services

import (
	"context"
	"fmt"

	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/db/repositories"

	"gorm.io/gorm"
)

// AvailabilityQuery identifies a departure instance and the seats wanted.
type AvailabilityQuery struct {
	RouteID  string
	VesselID string
	Date     string
	Time     string
	Quantity int
}

func (q AvailabilityQuery) key() repositories.DepartureKey {
	return repositories.DepartureKey{RouteID: q.RouteID, VesselID: q.VesselID, Date: q.Date, Time: q.Time}
}

// Availability is the seat picture of one departure instance.
type Availability struct {
	CapacityTotal int    `json:"capacity_total"`
	Sold          int    `json:"sold"`
	Available     int    `json:"available"`
	CanSell       bool   `json:"can_sell"`
	Message       string `json:"message"`
}

// AvailabilityCalculator computes remaining seats. It is read only and does
// not look at the schedule.
type AvailabilityCalculator struct{}

func NewAvailabilityCalculator() *AvailabilityCalculator {
	return &AvailabilityCalculator{}
}

// Calculate runs on db, which may be a transaction handle.
func (c *AvailabilityCalculator) Calculate(ctx context.Context, db *gorm.DB, q AvailabilityQuery) (*Availability, error) {
	if q.Quantity <= 0 {
		return nil, newValidationError("quantity", "must be greater than zero")
	}

	vessel, err := repositories.NewCatalogRepository(db).GetVessel(ctx, q.VesselID)
	if err != nil {
		return nil, err
	}
	if vessel == nil {
		return nil, fmt.Errorf("vessel %s: %w", q.VesselID, ErrNotFound)
	}

	sold, err := repositories.NewSaleRepository(db).SumConfirmed(ctx, q.key())
	if err != nil {
		return nil, err
	}

	return buildAvailability(vessel.PassengerCapacity, sold, q.Quantity), nil
}

func buildAvailability(capacity, sold, requested int) *Availability {
	a := &Availability{
		CapacityTotal: capacity,
		Sold:          sold,
		Available:     capacity - sold,
	}
	a.CanSell = a.Available >= requested

	switch {
	case a.CanSell:
		a.Message = fmt.Sprintf("%s: %d of %d", constants.MsgSeatsAvailable, a.Available, capacity)
	case a.Available <= 0:
		a.Message = "Departure is sold out"
	default:
		a.Message = fmt.Sprintf("Only %d seats left, %d requested", a.Available, requested)
	}
	return a
}
