package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/logging"
	"river-transit/ticketdesk/internal/metrics"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
	"river-transit/ticketdesk/internal/schedule"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateSaleInput is the full payload of a ticket sale.
type CreateSaleInput struct {
	ClientID     string
	RouteID      string
	VesselID     string
	EmbarkPortID string
	TravelDate   string
	TravelTime   string
	EmbarkTime   string
	Quantity     int
	// CustomPrice overrides the route price for this sale only.
	CustomPrice *float64
	PaymentType constants.PaymentType
	Payments    []PaymentInput
	SellerID    string
}

// SaleAdmissionService is the only write path for new sales. Writers of the
// same departure are serialized by the locker and by the departure_loads row
// lock, and the capacity check runs in the inserting transaction.
type SaleAdmissionService struct {
	db               *gorm.DB
	catalog          *repositories.CatalogRepository
	locker           locks.Locker
	calc             *AvailabilityCalculator
	metrics          *metrics.MetricsRegistry
	blockUnavailable bool
	events           common.EventPublisher
	lockWait         time.Duration
	now              func() time.Time
	log              *zap.SugaredLogger
}

func NewSaleAdmissionService(
	db *gorm.DB,
	locker locks.Locker,
	calc *AvailabilityCalculator,
	m *metrics.MetricsRegistry,
	blockUnavailableVessels bool,
) *SaleAdmissionService {
	return &SaleAdmissionService{
		db:               db,
		catalog:          repositories.NewCatalogRepository(db),
		locker:           locker,
		calc:             calc,
		metrics:          m,
		blockUnavailable: blockUnavailableVessels,
		events:           common.NopEventPublisher{},
		lockWait:         10 * time.Second,
		now:              time.Now,
		log:              logging.Named("sales"),
	}
}

// Admit validates and persists a sale, or returns a typed rejection.
func (s *SaleAdmissionService) Admit(ctx context.Context, in CreateSaleInput) (*gormModels.Sale, error) {
	sale, err := s.admit(ctx, in)
	if err != nil {
		reason := RejectReason(err)
		s.metrics.SalesRejectedTotal.WithLabelValues(reason).Inc()
		if reason == "internal" {
			s.log.Errorw("sale admission failed", "route_id", in.RouteID, "vessel_id", in.VesselID, "error", err)
		} else {
			s.log.Infow("sale rejected", "reason", reason, "route_id", in.RouteID, "vessel_id", in.VesselID,
				"date", in.TravelDate, "time", in.TravelTime, "quantity", in.Quantity, "error", err.Error())
		}
		return nil, err
	}

	s.metrics.SalesAdmittedTotal.Inc()
	s.metrics.SeatsSoldTotal.Add(float64(sale.PassengerCount))
	s.log.Infow("sale admitted",
		"sale_number", sale.SaleNumber,
		"route_id", sale.RouteID,
		"vessel_id", sale.VesselID,
		"date", sale.TravelDate,
		"time", sale.TravelTime,
		"quantity", sale.PassengerCount,
		"total", sale.Total,
	)
	publishSaleEvent(ctx, s.events, s.log, common.EventSaleConfirmed, sale, sale.SellerID, sale.CreatedAt)
	return sale, nil
}

// SetEventPublisher sends committed sales to p.
func (s *SaleAdmissionService) SetEventPublisher(p common.EventPublisher) {
	s.events = p
}

func (s *SaleAdmissionService) admit(ctx context.Context, in CreateSaleInput) (*gormModels.Sale, error) {
	date, clock, embark, err := validateSaleInput(in)
	if err != nil {
		return nil, err
	}

	route, err := s.catalog.GetRoute(ctx, in.RouteID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("route %s: %w", in.RouteID, ErrNotFound)
	}

	unitPrice := route.Price
	custom := in.CustomPrice != nil
	if custom {
		unitPrice = *in.CustomPrice
	}
	payments, total, err := buildPayments(in.PaymentType, in.Payments, unitPrice, in.Quantity)
	if err != nil {
		return nil, err
	}

	key := repositories.DepartureKey{
		RouteID:  in.RouteID,
		VesselID: in.VesselID,
		Date:     schedule.FormatDate(date),
		Time:     clock.String(),
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	release, err := s.locker.Lock(lockCtx, key.LockKey())
	cancel()
	if err != nil {
		return nil, fmt.Errorf("departure %s: %w", key.LockKey(), err)
	}
	defer release()

	var (
		sale         *gormModels.Sale
		unsellable   bool
		vesselStatus constants.VesselStatus
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := s.catalog.WithTx(tx)

		route, err := catalog.GetRoute(ctx, in.RouteID)
		if err != nil {
			return err
		}
		if route == nil {
			return fmt.Errorf("route %s: %w", in.RouteID, ErrNotFound)
		}
		if !route.IsActive {
			return newValidationError("route_id", "route is not active")
		}

		vessel, err := catalog.GetVessel(ctx, in.VesselID)
		if err != nil {
			return err
		}
		if vessel == nil {
			return fmt.Errorf("vessel %s: %w", in.VesselID, ErrNotFound)
		}
		if !vessel.Sellable() {
			if s.blockUnavailable {
				return &VesselUnavailableError{VesselID: vessel.ID, Status: vessel.Status}
			}
			unsellable, vesselStatus = true, vessel.Status
		}

		assignment, err := catalog.GetAssignment(ctx, in.RouteID, in.VesselID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return newValidationError("vessel_id", "vessel is not assigned to this route")
		}
		if _, err := checkSchedule(assignment, date, clock); err != nil {
			return err
		}

		port, err := catalog.GetPort(ctx, in.EmbarkPortID)
		if err != nil {
			return err
		}
		if port == nil {
			return newValidationError("embark_port_id", "port does not exist")
		}
		client, err := catalog.GetClient(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("client %s: %w", in.ClientID, ErrNotFound)
		}

		if _, err := repositories.NewDepartureLoadRepository(tx).Lock(ctx, key); err != nil {
			return err
		}

		avail, err := s.calc.Calculate(ctx, tx, AvailabilityQuery{
			RouteID:  key.RouteID,
			VesselID: key.VesselID,
			Date:     key.Date,
			Time:     key.Time,
			Quantity: in.Quantity,
		})
		if err != nil {
			return err
		}
		if !avail.CanSell {
			return &CapacityExceededError{Available: max(avail.Available, 0), Requested: in.Quantity}
		}

		sales := repositories.NewSaleRepository(tx)
		now := s.now()
		seq, err := sales.NextSaleNumber(ctx, now.Year())
		if err != nil {
			return err
		}

		sale = &gormModels.Sale{
			SaleNumber:     FormatSaleNumber(now.Year(), seq),
			ClientID:       in.ClientID,
			RouteID:        key.RouteID,
			VesselID:       key.VesselID,
			EmbarkPortID:   in.EmbarkPortID,
			TravelDate:     key.Date,
			TravelTime:     key.Time,
			EmbarkTime:     embark.String(),
			PassengerCount: in.Quantity,
			UnitPrice:      unitPrice,
			CustomPrice:    custom,
			Total:          total,
			PaymentType:    in.PaymentType,
			Status:         constants.SaleConfirmed,
			SellerID:       in.SellerID,
			Payments:       payments,
		}
		if err := sales.Create(ctx, sale); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%s: %w", sale.SaleNumber, ErrDuplicateSaleNumber)
			}
			return err
		}

		return repositories.NewDepartureLoadRepository(tx).Add(ctx, key, in.Quantity)
	})
	if err != nil {
		return nil, err
	}

	if unsellable {
		s.metrics.UnavailableVesselSales.Inc()
		s.log.Warnw("sale admitted on unavailable vessel", "vessel_id", in.VesselID, "status", vesselStatus, "sale_number", sale.SaleNumber)
	}
	return sale, nil
}

func validateSaleInput(in CreateSaleInput) (time.Time, schedule.ClockTime, schedule.ClockTime, error) {
	v := &ValidationError{}
	required := map[string]string{
		"client_id":      in.ClientID,
		"route_id":       in.RouteID,
		"vessel_id":      in.VesselID,
		"embark_port_id": in.EmbarkPortID,
		"seller_id":      in.SellerID,
	}
	for field, val := range required {
		if strings.TrimSpace(val) == "" {
			v.Add(field, "is required")
		}
	}
	if in.Quantity <= 0 {
		v.Add("quantity", "must be greater than zero")
	}
	if in.CustomPrice != nil && *in.CustomPrice <= 0 {
		v.Add("custom_price", "must be greater than zero")
	}

	date, clock := parseDeparture(v, in.TravelDate, in.TravelTime)
	embark := clock
	if strings.TrimSpace(in.EmbarkTime) != "" {
		var err error
		if embark, err = schedule.ParseClock(in.EmbarkTime); err != nil {
			v.Add("embark_time", "must be HH:MM")
		}
	}

	if err := v.OrNil(); err != nil {
		return time.Time{}, 0, 0, err
	}
	return date, clock, embark, nil
}

// FormatSaleNumber renders the human-facing sale number, e.g. VTA-2025-000042.
func FormatSaleNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", constants.SaleNumberPrefix, year, seq)
}
