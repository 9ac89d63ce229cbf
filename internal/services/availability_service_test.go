package services

import (
	"context"
	"errors"
	"testing"

	gormModels "river-transit/ticketdesk/internal/models/gorm"
	"river-transit/ticketdesk/internal/schedule"
)

func TestCalculator_EmptyDeparture(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	a, err := NewAvailabilityCalculator().Calculate(context.Background(), d.db, dep.query(monday, "07:00", 20))
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if a.CapacityTotal != 20 || a.Sold != 0 || a.Available != 20 || !a.CanSell {
		t.Errorf("got %+v", a)
	}
}

func TestCalculator_DoesNotCheckSchedule(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, []string{"LUNES"}, []string{"07:00"})

	a, err := NewAvailabilityCalculator().Calculate(context.Background(), d.db, dep.query(tuesday, "11:11", 1))
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if a.Available != 20 {
		t.Errorf("Available = %d, want 20", a.Available)
	}
}

func TestCalculator_RejectsNonPositiveQuantity(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	var ve *ValidationError
	if _, err := NewAvailabilityCalculator().Calculate(context.Background(), d.db, dep.query(monday, "07:00", 0)); !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestCalculator_UnknownVessel(t *testing.T) {
	d := newDesk(t)
	q := AvailabilityQuery{RouteID: "r", VesselID: "nope", Date: monday, Time: "07:00", Quantity: 1}
	if _, err := NewAvailabilityCalculator().Calculate(context.Background(), d.db, q); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildAvailabilityMessages(t *testing.T) {
	if a := buildAvailability(20, 20, 1); a.CanSell || a.Message != "Departure is sold out" {
		t.Errorf("sold out: %+v", a)
	}
	if a := buildAvailability(20, 17, 5); a.CanSell || a.Message != "Only 3 seats left, 5 requested" {
		t.Errorf("short: %+v", a)
	}
	if a := buildAvailability(20, 17, 3); !a.CanSell || a.Available != 3 {
		t.Errorf("exact: %+v", a)
	}
}

func TestCheck_AccentVariantsAgree(t *testing.T) {
	for _, variant := range []string{"MIERCOLES", "miércoles", "Miércoles "} {
		d := newDesk(t)
		dep := d.seed(20, []string{variant}, []string{"07:00"})

		if _, err := d.avail.Check(context.Background(), dep.query(wednesday, "07:00", 1)); err != nil {
			t.Errorf("%q: Wednesday rejected: %v", variant, err)
		}
		var se *ScheduleMismatchError
		if _, err := d.avail.Check(context.Background(), dep.query(monday, "07:00", 1)); !errors.As(err, &se) {
			t.Errorf("%q: Monday accepted, err = %v", variant, err)
		}
	}
}

func TestCheck_AcceptsSecondsInTime(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	if _, err := d.admission.Admit(ctx, dep.sale(monday, "07:00:00", 3)); err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	a, err := d.avail.Check(ctx, dep.query(monday, "07:00", 1))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if a.Sold != 3 {
		t.Errorf("Sold = %d, want 3", a.Sold)
	}
}

func TestCheck_RouteNotFound(t *testing.T) {
	d := newDesk(t)
	q := AvailabilityQuery{RouteID: "missing", VesselID: "v", Date: monday, Time: "07:00", Quantity: 1}
	if _, err := d.avail.Check(context.Background(), q); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBoard_ListsOperatingDepartures(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(10, []string{"LUNES", "MIERCOLES"}, []string{"14:00", "07:00"})
	ctx := context.Background()

	if _, err := d.admission.Admit(ctx, dep.sale(monday, "14:00", 4)); err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	board, err := d.avail.Board(ctx, dep.route.ID, monday)
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if board.Weekday != schedule.DisplayWeekday(schedule.Lunes) {
		t.Errorf("Weekday = %q", board.Weekday)
	}
	if len(board.Departures) != 2 {
		t.Fatalf("departures = %d, want 2", len(board.Departures))
	}
	if board.Departures[0].Time != "07:00" || board.Departures[0].Availability.Available != 10 {
		t.Errorf("first departure = %+v", board.Departures[0])
	}
	if board.Departures[1].Time != "14:00" || board.Departures[1].Availability.Available != 6 {
		t.Errorf("second departure = %+v", board.Departures[1])
	}
	if board.Departures[0].VesselName != "Amazonas I" {
		t.Errorf("VesselName = %q", board.Departures[0].VesselName)
	}

	closed, err := d.avail.Board(ctx, dep.route.ID, tuesday)
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if len(closed.Departures) != 0 {
		t.Errorf("Tuesday departures = %d, want 0", len(closed.Departures))
	}
}

func TestInactiveRouteIsNotSellable(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	if err := d.db.Model(&gormModels.Route{}).Where("id = ?", dep.route.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate route: %v", err)
	}

	var ve *ValidationError
	if _, err := d.avail.Check(ctx, dep.query(monday, "07:00", 1)); !errors.As(err, &ve) || ve.Fields["route_id"] == "" {
		t.Errorf("Check err = %v, want route_id ValidationError", err)
	}
	if _, err := d.avail.Board(ctx, dep.route.ID, monday); !errors.As(err, &ve) || ve.Fields["route_id"] == "" {
		t.Errorf("Board err = %v, want route_id ValidationError", err)
	}
	if _, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 1)); !errors.As(err, &ve) {
		t.Errorf("Admit err = %v, want ValidationError", err)
	}
}
