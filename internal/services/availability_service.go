package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/metrics"
	"river-transit/ticketdesk/internal/schedule"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// boardConcurrency bounds the parallel queries of one departure board.
const boardConcurrency = 8

// AvailabilityService answers availability questions from the API. Unlike
// the calculator it rejects dates and times the vessel does not sail.
type AvailabilityService struct {
	db      *gorm.DB
	catalog *repositories.CatalogRepository
	calc    *AvailabilityCalculator
	metrics *metrics.MetricsRegistry
}

func NewAvailabilityService(db *gorm.DB, calc *AvailabilityCalculator, m *metrics.MetricsRegistry) *AvailabilityService {
	return &AvailabilityService{
		db:      db,
		catalog: repositories.NewCatalogRepository(db),
		calc:    calc,
		metrics: m,
	}
}

// Check validates the departure and computes its availability.
func (s *AvailabilityService) Check(ctx context.Context, q AvailabilityQuery) (*Availability, error) {
	v := &ValidationError{}
	if strings.TrimSpace(q.RouteID) == "" {
		v.Add("route_id", "is required")
	}
	if strings.TrimSpace(q.VesselID) == "" {
		v.Add("vessel_id", "is required")
	}
	if q.Quantity <= 0 {
		v.Add("quantity", "must be greater than zero")
	}
	date, clock := parseDeparture(v, q.Date, q.Time)
	if err := v.OrNil(); err != nil {
		s.metrics.AvailabilityChecks.WithLabelValues("invalid").Inc()
		return nil, err
	}

	route, err := s.catalog.GetRoute(ctx, q.RouteID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("route %s: %w", q.RouteID, ErrNotFound)
	}
	if !route.IsActive {
		s.metrics.AvailabilityChecks.WithLabelValues("invalid").Inc()
		return nil, newValidationError("route_id", "route is not active")
	}

	assignment, err := s.catalog.GetAssignment(ctx, q.RouteID, q.VesselID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		s.metrics.AvailabilityChecks.WithLabelValues("invalid").Inc()
		return nil, newValidationError("vessel_id", "vessel is not assigned to this route")
	}

	q.Time, err = checkSchedule(assignment, date, clock)
	if err != nil {
		s.metrics.AvailabilityChecks.WithLabelValues("schedule_mismatch").Inc()
		return nil, err
	}

	a, err := s.calc.Calculate(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	if a.CanSell {
		s.metrics.AvailabilityChecks.WithLabelValues("can_sell").Inc()
	} else {
		s.metrics.AvailabilityChecks.WithLabelValues("insufficient").Inc()
	}
	return a, nil
}

// Departure is one (vessel, time) sailing of a route on a given date.
type Departure struct {
	VesselID     string        `json:"vessel_id"`
	VesselName   string        `json:"vessel_name"`
	Time         string        `json:"time"`
	Availability *Availability `json:"availability"`
}

// DepartureBoard lists every sailing of a route on a date.
type DepartureBoard struct {
	RouteID    string      `json:"route_id"`
	RouteName  string      `json:"route_name"`
	Date       string      `json:"date"`
	Weekday    string      `json:"weekday"`
	Departures []Departure `json:"departures"`
}

// Board computes the availability of every departure of routeID on date.
func (s *AvailabilityService) Board(ctx context.Context, routeID, date string) (*DepartureBoard, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, newValidationError("date", "must be YYYY-MM-DD")
	}

	route, err := s.catalog.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrNotFound)
	}
	if !route.IsActive {
		return nil, newValidationError("route_id", "route is not active")
	}

	assignments, err := s.catalog.ListAssignments(ctx, routeID)
	if err != nil {
		return nil, err
	}

	board := &DepartureBoard{
		RouteID:    route.ID,
		RouteName:  route.Name,
		Date:       schedule.FormatDate(day),
		Weekday:    schedule.DisplayWeekday(schedule.WeekdayName(day.Weekday())),
		Departures: []Departure{},
	}

	for _, a := range assignments {
		plan, err := a.Plan()
		if err != nil {
			return nil, fmt.Errorf("assignment %s has an invalid schedule: %w", a.ID, err)
		}
		if !schedule.IsOperatingDay(plan, day) {
			continue
		}
		for _, t := range schedule.DepartureTimesFor(plan) {
			board.Departures = append(board.Departures, Departure{
				VesselID:   a.VesselID,
				VesselName: a.Vessel.Name,
				Time:       t.String(),
			})
		}
	}

	sort.SliceStable(board.Departures, func(i, j int) bool {
		return board.Departures[i].Time < board.Departures[j].Time
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(boardConcurrency)
	for i := range board.Departures {
		dep := &board.Departures[i]
		g.Go(func() error {
			a, err := s.calc.Calculate(gctx, s.db, AvailabilityQuery{
				RouteID:  routeID,
				VesselID: dep.VesselID,
				Date:     board.Date,
				Time:     dep.Time,
				Quantity: 1,
			})
			if err != nil {
				return fmt.Errorf("departure %s %s: %w", dep.VesselID, dep.Time, err)
			}
			dep.Availability = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return board, nil
}
