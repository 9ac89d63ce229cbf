package services

import (
	"context"
	"testing"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/db/dbtest"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/metrics"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	monday    = "2030-03-11"
	tuesday   = "2030-03-12"
	wednesday = "2030-03-13"
)

// desk wires the services over a fresh database.
type desk struct {
	t         *testing.T
	db        *gorm.DB
	metrics   *metrics.MetricsRegistry
	locker    *locks.LocalLocker
	catalog   *CatalogService
	guard     *OperatorAssignmentService
	avail     *AvailabilityService
	admission *SaleAdmissionService
	lifecycle *SaleLifecycleService
}

func newDesk(t *testing.T) *desk {
	t.Helper()
	db := dbtest.Open(t)
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	locker := locks.NewLocalLocker()
	calc := NewAvailabilityCalculator()
	guard := NewOperatorAssignmentService(db, locker)

	admission := NewSaleAdmissionService(db, locker, calc, m, false)
	admission.now = func() time.Time { return time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC) }

	return &desk{
		t:         t,
		db:        db,
		metrics:   m,
		locker:    locker,
		catalog:   NewCatalogService(db, common.NewCacheService(60, 120), guard),
		guard:     guard,
		avail:     NewAvailabilityService(db, calc, m),
		admission: admission,
		lifecycle: NewSaleLifecycleService(db, locker, m),
	}
}

// departure is a route with one vessel assignment and a client to sell to.
type departure struct {
	route  *gormModels.Route
	vessel *gormModels.Vessel
	port   *gormModels.Port
	client *gormModels.Client
}

func (d *desk) seed(capacity int, days []string, times []string) departure {
	d.t.Helper()
	ctx := context.Background()

	origin, err := d.catalog.CreatePort(ctx, CreatePortInput{Name: "Puerto Iquitos", City: "Iquitos"})
	if err != nil {
		d.t.Fatalf("CreatePort: %v", err)
	}
	dest, err := d.catalog.CreatePort(ctx, CreatePortInput{Name: "Puerto Nauta", City: "Nauta"})
	if err != nil {
		d.t.Fatalf("CreatePort: %v", err)
	}
	route, err := d.catalog.CreateRoute(ctx, CreateRouteInput{
		Name: "Iquitos - Nauta", OriginPortID: origin.ID, DestinationPortID: dest.ID, Price: 25,
	})
	if err != nil {
		d.t.Fatalf("CreateRoute: %v", err)
	}
	vessel, err := d.catalog.CreateVessel(ctx, CreateVesselInput{
		Name: "Amazonas I", Registration: "IQ-001", PassengerCapacity: capacity, Type: "deslizador",
	})
	if err != nil {
		d.t.Fatalf("CreateVessel: %v", err)
	}
	if _, err := d.catalog.CreateAssignment(ctx, CreateAssignmentInput{
		RouteID: route.ID, VesselID: vessel.ID, DepartureTimes: times, OperatingDays: days,
	}); err != nil {
		d.t.Fatalf("CreateAssignment: %v", err)
	}
	client, _, err := d.catalog.UpsertClient(ctx, CreateClientInput{DocumentNumber: "45871236", FullName: "Rosa Huamán"})
	if err != nil {
		d.t.Fatalf("UpsertClient: %v", err)
	}

	return departure{route: route, vessel: vessel, port: origin, client: client}
}

func (dep departure) sale(date, clock string, qty int) CreateSaleInput {
	return CreateSaleInput{
		ClientID:     dep.client.ID,
		RouteID:      dep.route.ID,
		VesselID:     dep.vessel.ID,
		EmbarkPortID: dep.port.ID,
		TravelDate:   date,
		TravelTime:   clock,
		Quantity:     qty,
		PaymentType:  constants.PaymentSingle,
		Payments:     []PaymentInput{{Method: constants.MethodCash}},
		SellerID:     "seller-1",
	}
}

func (dep departure) query(date, clock string, qty int) AvailabilityQuery {
	return AvailabilityQuery{RouteID: dep.route.ID, VesselID: dep.vessel.ID, Date: date, Time: clock, Quantity: qty}
}

func (d *desk) available(dep departure, date, clock string) int {
	d.t.Helper()
	a, err := d.avail.Check(context.Background(), dep.query(date, clock, 1))
	if err != nil {
		d.t.Fatalf("Check: %v", err)
	}
	return a.Available
}

func (d *desk) loadSold(dep departure, date, clock string) int {
	d.t.Helper()
	var load gormModels.DepartureLoad
	err := d.db.Where("route_id = ? AND vessel_id = ? AND travel_date = ? AND departure_time = ?",
		dep.route.ID, dep.vessel.ID, date, clock).First(&load).Error
	if err != nil {
		d.t.Fatalf("load row: %v", err)
	}
	return load.Sold
}
