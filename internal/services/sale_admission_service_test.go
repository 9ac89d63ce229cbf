package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
)

var everyDay = []string{"LUNES", "MARTES", "MIÉRCOLES", "JUEVES", "VIERNES", "SÁBADO", "DOMINGO"}

func TestAdmit_FillsDepartureToCapacity(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, []string{"LUNES", "MIERCOLES"}, []string{"07:00"})

	sale, err := d.admission.Admit(context.Background(), dep.sale(monday, "07:00", 20))
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if sale.Status != constants.SaleConfirmed {
		t.Errorf("Status = %s, want CONFIRMED", sale.Status)
	}
	if sale.Total != 500 {
		t.Errorf("Total = %v, want 500", sale.Total)
	}
	if got := d.available(dep, monday, "07:00"); got != 0 {
		t.Errorf("available after sale = %d, want 0", got)
	}
	if got := d.loadSold(dep, monday, "07:00"); got != 20 {
		t.Errorf("departure load = %d, want 20", got)
	}
}

func TestAdmit_SoldOutDepartureRejects(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, []string{"LUNES", "MIERCOLES"}, []string{"07:00"})
	ctx := context.Background()

	if _, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 20)); err != nil {
		t.Fatalf("first Admit() error = %v", err)
	}

	_, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 1))
	var ce *CapacityExceededError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if ce.Available != 0 || ce.Requested != 1 {
		t.Errorf("got available=%d requested=%d, want 0 and 1", ce.Available, ce.Requested)
	}
	if got := d.available(dep, monday, "07:00"); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}

	var count int64
	d.db.Model(&gormModels.Sale{}).Count(&count)
	if count != 1 {
		t.Errorf("sales stored = %d, want 1", count)
	}
}

func TestAdmit_WrongWeekdayListsOperatingDays(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, []string{"LUNES", "MIÉRCOLES"}, []string{"07:00"})

	_, err := d.admission.Admit(context.Background(), dep.sale(tuesday, "07:00", 2))
	var se *ScheduleMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ScheduleMismatchError", err)
	}
	if !se.WrongDay {
		t.Error("expected a weekday mismatch")
	}
	if want := []string{"LUNES", "MIERCOLES"}; !reflect.DeepEqual(se.ValidWeekdays, want) {
		t.Errorf("ValidWeekdays = %v, want %v", se.ValidWeekdays, want)
	}
}

func TestAdmit_UnknownDepartureTime(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, nil, []string{"07:00", "14:30"})

	_, err := d.admission.Admit(context.Background(), dep.sale(tuesday, "09:00", 1))
	var se *ScheduleMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ScheduleMismatchError", err)
	}
	if se.WrongDay {
		t.Error("an empty weekday set accepts every date")
	}
	if want := []string{"07:00", "14:30"}; !reflect.DeepEqual(se.ValidTimes, want) {
		t.Errorf("ValidTimes = %v, want %v", se.ValidTimes, want)
	}
}

func TestAdmit_ConcurrentRequestsNeverOversell(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	const attempts = 30
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.admission.Admit(context.Background(), dep.sale(wednesday, "07:00", 2))
			mu.Lock()
			defer mu.Unlock()
			var ce *CapacityExceededError
			switch {
			case err == nil:
				admitted++
			case errors.As(err, &ce):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if admitted != 10 || rejected != 20 {
		t.Fatalf("admitted=%d rejected=%d, want 10 and 20", admitted, rejected)
	}

	var sold int64
	d.db.Model(&gormModels.Sale{}).
		Select("COALESCE(SUM(passenger_count), 0)").
		Where("status = ?", constants.SaleConfirmed).
		Scan(&sold)
	if sold != 20 {
		t.Errorf("confirmed passengers = %d, want 20", sold)
	}
	if got := d.loadSold(dep, wednesday, "07:00"); got != 20 {
		t.Errorf("departure load = %d, want 20", got)
	}
}

func TestAdmit_AvailabilityDecreasesByQuantity(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(30, everyDay, []string{"07:00"})
	ctx := context.Background()

	before := d.available(dep, monday, "07:00")
	for _, qty := range []int{1, 4, 7, 3} {
		if _, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", qty)); err != nil {
			t.Fatalf("Admit(%d) error = %v", qty, err)
		}
		after := d.available(dep, monday, "07:00")
		if before-after != qty {
			t.Errorf("available went %d -> %d after selling %d", before, after, qty)
		}
		before = after
	}
}

func TestAdmit_DeparturesAreIndependent(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(10, everyDay, []string{"07:00", "14:00"})
	ctx := context.Background()

	if _, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 10)); err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if got := d.available(dep, monday, "14:00"); got != 10 {
		t.Errorf("afternoon available = %d, want 10", got)
	}
	if got := d.available(dep, tuesday, "07:00"); got != 10 {
		t.Errorf("next day available = %d, want 10", got)
	}
}

func TestAdmit_HybridPaymentMustMatchTotal(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	tests := []struct {
		name    string
		amounts []float64
		wantErr bool
	}{
		{"exact", []float64{60, 40}, false},
		{"within tolerance", []float64{33.333, 33.333, 33.334}, false},
		{"short", []float64{60, 39}, true},
		{"over", []float64{60, 40.5}, true},
		{"single method", []float64{100}, true},
		{"zero amount", []float64{100, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := dep.sale(monday, "07:00", 4)
			in.PaymentType = constants.PaymentHybrid
			in.Payments = nil
			for i, a := range tt.amounts {
				m := constants.MethodCash
				if i%2 == 1 {
					m = constants.MethodYape
				}
				in.Payments = append(in.Payments, PaymentInput{Method: m, Amount: a})
			}

			sale, err := d.admission.Admit(ctx, in)
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Admit() error = %v", err)
			}
			if len(sale.Payments) != len(tt.amounts) {
				t.Errorf("stored %d payments, want %d", len(sale.Payments), len(tt.amounts))
			}
		})
	}
}

func TestAdmit_SinglePaymentTakesTotal(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	in := dep.sale(monday, "07:00", 3)
	in.Payments = []PaymentInput{{Method: constants.MethodCard}}
	sale, err := d.admission.Admit(context.Background(), in)
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if len(sale.Payments) != 1 || sale.Payments[0].Amount != 75 {
		t.Errorf("payments = %+v, want one payment of 75", sale.Payments)
	}

	in.Payments = []PaymentInput{{Method: constants.MethodCard, Amount: 75}}
	if _, err := d.admission.Admit(context.Background(), in); err != nil {
		t.Errorf("UNICO with the exact total: %v", err)
	}

	var ve *ValidationError
	in.Payments = []PaymentInput{{Method: constants.MethodCash, Amount: 1}}
	if _, err := d.admission.Admit(context.Background(), in); !errors.As(err, &ve) || ve.Fields["payments"] == "" {
		t.Errorf("UNICO declared at 1.00 against 75.00: err = %v, want payments ValidationError", err)
	}

	in.Payments = []PaymentInput{{Method: constants.MethodCard}, {Method: constants.MethodCash}}
	if _, err := d.admission.Admit(context.Background(), in); err == nil {
		t.Error("UNICO with two methods should be rejected")
	}
}

func TestAdmit_CustomPriceStaysOnSale(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	price := 18.5
	in := dep.sale(monday, "07:00", 2)
	in.CustomPrice = &price
	sale, err := d.admission.Admit(ctx, in)
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if !sale.CustomPrice || sale.UnitPrice != 18.5 || sale.Total != 37 {
		t.Errorf("sale price = %v/%v custom=%v, want 18.5/37 custom", sale.UnitPrice, sale.Total, sale.CustomPrice)
	}

	var route gormModels.Route
	d.db.First(&route, "id = ?", dep.route.ID)
	if route.Price != 25 {
		t.Errorf("route price changed to %v", route.Price)
	}
}

func TestAdmit_ValidationMessages(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	in := dep.sale("11/03/2030", "7am", 0)
	in.ClientID = ""
	_, err := d.admission.Admit(context.Background(), in)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"client_id", "quantity", "date", "time"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing message for %s in %v", field, ve.Fields)
		}
	}
}

func TestAdmit_VesselNotOnRoute(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})

	other, err := d.catalog.CreateVessel(context.Background(), CreateVesselInput{Name: "Napo", Registration: "IQ-002", PassengerCapacity: 12})
	if err != nil {
		t.Fatalf("CreateVessel: %v", err)
	}
	in := dep.sale(monday, "07:00", 1)
	in.VesselID = other.ID

	_, err = d.admission.Admit(context.Background(), in)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["vessel_id"] == "" {
		t.Fatalf("err = %v, want vessel_id ValidationError", err)
	}
}

func TestAdmit_SaleNumbersAreSequential(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		sale, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 1))
		if err != nil {
			t.Fatalf("Admit() error = %v", err)
		}
		numbers = append(numbers, sale.SaleNumber)
	}
	want := []string{"VTA-2030-000001", "VTA-2030-000002", "VTA-2030-000003"}
	if !reflect.DeepEqual(numbers, want) {
		t.Errorf("numbers = %v, want %v", numbers, want)
	}
}

func TestAdmit_SaleNumberCollisionFailsWholeSale(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	// A row carrying the next number, e.g. from a manual import.
	legacy := gormModels.Sale{
		SaleNumber: "VTA-2030-000001", ClientID: dep.client.ID, RouteID: dep.route.ID, VesselID: dep.vessel.ID,
		EmbarkPortID: dep.port.ID, TravelDate: tuesday, TravelTime: "07:00", PassengerCount: 1,
		UnitPrice: 25, Total: 25, PaymentType: constants.PaymentSingle, Status: constants.SaleConfirmed, SellerID: "import",
	}
	if err := d.db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed legacy sale: %v", err)
	}

	_, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 2))
	if !errors.Is(err, ErrDuplicateSaleNumber) {
		t.Fatalf("err = %v, want ErrDuplicateSaleNumber", err)
	}
	if got := d.available(dep, monday, "07:00"); got != 20 {
		t.Errorf("available = %d, want 20 after rolled back sale", got)
	}

	var stored gormModels.Sale
	d.db.First(&stored, "sale_number = ?", "VTA-2030-000001")
	if stored.ID != legacy.ID || stored.TravelDate != tuesday {
		t.Error("existing sale was overwritten")
	}
}

func TestAdmit_UnavailableVesselPolicy(t *testing.T) {
	d := newDesk(t)
	dep := d.seed(20, everyDay, []string{"07:00"})
	ctx := context.Background()

	if _, err := d.catalog.UpdateVesselStatus(ctx, dep.vessel.ID, constants.VesselMaintenance); err != nil {
		t.Fatalf("UpdateVesselStatus: %v", err)
	}

	if _, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 1)); err != nil {
		t.Fatalf("advisory mode should admit, got %v", err)
	}

	d.admission.blockUnavailable = true
	_, err := d.admission.Admit(ctx, dep.sale(monday, "07:00", 1))
	var ue *VesselUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want VesselUnavailableError", err)
	}
	if ue.Status != constants.VesselMaintenance {
		t.Errorf("Status = %s", ue.Status)
	}
}

func TestRejectReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ValidationError{}, "validation"},
		{&CapacityExceededError{}, "capacity"},
		{&ScheduleMismatchError{}, "schedule"},
		{&VesselUnavailableError{}, "vessel_unavailable"},
		{ErrNotFound, "not_found"},
		{ErrDuplicateSaleNumber, "duplicate_number"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := RejectReason(tt.err); got != tt.want {
			t.Errorf("RejectReason(%T) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
