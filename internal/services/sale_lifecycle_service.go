package services

import (
	"context"
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

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleLifecycleService moves CONFIRMED sales to VOIDED or REFUNDED and
// gives their seats back to the departure.
type SaleLifecycleService struct {
	db      *gorm.DB
	sales   *repositories.SaleRepository
	locker  locks.Locker
	metrics *metrics.MetricsRegistry
	events  common.EventPublisher
	now     func() time.Time
	log     *zap.SugaredLogger
}

func NewSaleLifecycleService(db *gorm.DB, locker locks.Locker, m *metrics.MetricsRegistry) *SaleLifecycleService {
	return &SaleLifecycleService{
		db:      db,
		sales:   repositories.NewSaleRepository(db),
		locker:  locker,
		metrics: m,
		events:  common.NopEventPublisher{},
		now:     time.Now,
		log:     logging.Named("sales"),
	}
}

// Get returns a sale with its payments.
func (s *SaleLifecycleService) Get(ctx context.Context, id string) (*gormModels.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
	}
	return sale, nil
}

// GetByNumber looks a sale up by its human-facing number.
func (s *SaleLifecycleService) GetByNumber(ctx context.Context, number string) (*gormModels.Sale, error) {
	sale, err := s.sales.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("sale %s: %w", number, ErrNotFound)
	}
	return sale, nil
}

func (s *SaleLifecycleService) Void(ctx context.Context, id, reason, actor string) (*gormModels.Sale, error) {
	return s.transition(ctx, id, constants.SaleVoided, reason, actor)
}

func (s *SaleLifecycleService) Refund(ctx context.Context, id, reason, actor string) (*gormModels.Sale, error) {
	return s.transition(ctx, id, constants.SaleRefunded, reason, actor)
}

func (s *SaleLifecycleService) transition(ctx context.Context, id string, to constants.SaleStatus, reason, actor string) (*gormModels.Sale, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, newValidationError("reason", "is required")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != constants.SaleConfirmed {
		return nil, fmt.Errorf("sale %s is %s: %w", current.SaleNumber, current.Status, ErrInvalidSaleTransition)
	}

	key := repositories.DepartureKey{
		RouteID:  current.RouteID,
		VesselID: current.VesselID,
		Date:     current.TravelDate,
		Time:     current.TravelTime,
	}
	release, err := s.locker.Lock(ctx, key.LockKey())
	if err != nil {
		return nil, fmt.Errorf("departure %s: %w", key.LockKey(), err)
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.sales.WithTx(tx)
		loads := repositories.NewDepartureLoadRepository(tx)

		load, err := loads.Lock(ctx, key)
		if err != nil {
			return err
		}

		sale, err := sales.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		if sale.Status != constants.SaleConfirmed {
			return fmt.Errorf("sale %s is %s: %w", sale.SaleNumber, sale.Status, ErrInvalidSaleTransition)
		}

		if err := sales.UpdateStatus(ctx, id, to, reason, actor, s.now()); err != nil {
			return err
		}

		if load.Sold >= sale.PassengerCount {
			return loads.Add(ctx, key, -sale.PassengerCount)
		}

		// Counter predates this sale or drifted; rebuild it from the sales table.
		sold, err := sales.SumConfirmed(ctx, key)
		if err != nil {
			return err
		}
		s.log.Warnw("departure load below released seats, recomputed",
			"route_id", key.RouteID, "vessel_id", key.VesselID, "date", key.Date, "time", key.Time,
			"load", load.Sold, "released", sale.PassengerCount, "recomputed", sold)
		return loads.Set(ctx, key, sold)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SeatsReleasedTotal.WithLabelValues(string(to)).Add(float64(current.PassengerCount))
	s.log.Infow("sale status changed",
		"sale_number", current.SaleNumber,
		"status", to,
		"actor", actor,
		"released_seats", current.PassengerCount,
	)

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	evType := common.EventSaleVoided
	if to == constants.SaleRefunded {
		evType = common.EventSaleRefunded
	}
	at := s.now()
	if updated.StatusChangedAt != nil {
		at = *updated.StatusChangedAt
	}
	publishSaleEvent(ctx, s.events, s.log, evType, updated, actor, at)
	return updated, nil
}

// SetEventPublisher sends status changes to p.
func (s *SaleLifecycleService) SetEventPublisher(p common.EventPublisher) {
	s.events = p
}
