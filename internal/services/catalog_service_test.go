package services

import (
	"context"
	"errors"
	"testing"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
)

func TestCreateAssignment_NormalizesSchedule(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, []string{"lunes"}, []string{"07:00"})
	ctx := context.Background()

	other, err := d.catalog.CreateVessel(ctx, CreateVesselInput{Name: "Ucayali", Registration: "IQ-009", PassengerCapacity: 30})
	if err != nil {
		t.Fatalf("CreateVessel() error = %v", err)
	}
	a, err := d.catalog.CreateAssignment(ctx, CreateAssignmentInput{
		RouteID:        dep.route.ID,
		VesselID:       other.ID,
		DepartureTimes: []string{"16:00", "06:30", "16:00"},
		OperatingDays:  []string{"Sábado", "miércoles", "SABADO"},
	})
	if err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	if a.OperatingDays != "MIERCOLES,SABADO" {
		t.Errorf("OperatingDays = %q", a.OperatingDays)
	}
	if a.DepartureTimes != "16:00,06:30" {
		t.Errorf("DepartureTimes = %q", a.DepartureTimes)
	}

	_, err = d.catalog.CreateAssignment(ctx, CreateAssignmentInput{
		RouteID: dep.route.ID, VesselID: other.ID, DepartureTimes: []string{"08:00"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("duplicate assignment err = %v, want ValidationError", err)
	}
}

func TestCreateAssignment_RejectsBadInput(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	_, err := d.catalog.CreateAssignment(context.Background(), CreateAssignmentInput{
		RouteID: dep.route.ID, VesselID: dep.vessel.ID, DepartureTimes: []string{"25:00"}, OperatingDays: []string{"FERIADO"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Fields["operating_days"] == "" || ve.Fields["departure_times"] == "" {
		t.Errorf("fields = %v", ve.Fields)
	}
}

func TestVesselStatusInvalidatesCache(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	v, err := d.catalog.GetVessel(ctx, dep.vessel.ID)
	if err != nil || v.Status != constants.VesselActive {
		t.Fatalf("GetVessel() = %+v, %v", v, err)
	}
	if _, err := d.catalog.UpdateVesselStatus(ctx, dep.vessel.ID, constants.VesselInactive); err != nil {
		t.Fatalf("UpdateVesselStatus() error = %v", err)
	}
	v, err = d.catalog.GetVessel(ctx, dep.vessel.ID)
	if err != nil || v.Status != constants.VesselInactive {
		t.Errorf("GetVessel() after update = %+v, %v", v, err)
	}

	if _, err := d.catalog.UpdateVesselStatus(ctx, "missing", constants.VesselActive); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	var ve *ValidationError
	if _, err := d.catalog.UpdateVesselStatus(ctx, dep.vessel.ID, "SUNK"); !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestCreateVessel_Validation(t *testing.T) {
	d := newDesk(t)
	_, err := d.catalog.CreateVessel(context.Background(), CreateVesselInput{Name: "", PassengerCapacity: 0, Status: "BROKEN"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, f := range []string{"name", "registration", "passenger_capacity", "status"} {
		if ve.Fields[f] == "" {
			t.Errorf("missing %s in %v", f, ve.Fields)
		}
	}
}

func TestCreateRoute_PortsMustExistAndDiffer(t *testing.T) {
	d := newDesk(t)
	ctx := context.Background()
	p, err := d.catalog.CreatePort(ctx, CreatePortInput{Name: "Yurimaguas"})
	if err != nil {
		t.Fatalf("CreatePort() error = %v", err)
	}

	var ve *ValidationError
	if _, err := d.catalog.CreateRoute(ctx, CreateRouteInput{Name: "loop", OriginPortID: p.ID, DestinationPortID: p.ID, Price: 10}); !errors.As(err, &ve) {
		t.Errorf("same ports err = %v", err)
	}
	if _, err := d.catalog.CreateRoute(ctx, CreateRouteInput{Name: "x", OriginPortID: p.ID, DestinationPortID: "ghost", Price: 10}); !errors.As(err, &ve) {
		t.Errorf("missing port err = %v", err)
	}
}

func TestUpsertClient_ReturnsExisting(t *testing.T) {
	d := newDesk(t)
	ctx := context.Background()

	first, created, err := d.catalog.UpsertClient(ctx, CreateClientInput{DocumentNumber: "70000001", FullName: "Ana"})
	if err != nil || !created {
		t.Fatalf("UpsertClient() = %v, %v", created, err)
	}
	again, created, err := d.catalog.UpsertClient(ctx, CreateClientInput{DocumentType: "dni", DocumentNumber: "70000001", FullName: "Ana María"})
	if err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}
	if created || again.ID != first.ID {
		t.Errorf("expected existing client, got created=%v id=%s", created, again.ID)
	}
}

func TestWarmCache_LoadsVesselsAndRoutes(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	n, err := d.catalog.WarmCache(context.Background())
	if err != nil {
		t.Fatalf("WarmCache() error = %v", err)
	}
	if n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}

	var v gormModels.Vessel
	if !d.catalog.cache.Get(common.CacheKey(string(constants.CachePrefixVessel), dep.vessel.ID), &v) {
		t.Fatal("vessel not cached")
	}
	if v.PassengerCapacity != 20 {
		t.Errorf("cached capacity = %d, want 20", v.PassengerCapacity)
	}
}
