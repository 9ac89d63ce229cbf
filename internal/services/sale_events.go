package services

import (
	"context"
	"time"

	"river-transit/ticketdesk/internal/common"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"go.uber.org/zap"
)

// publishSaleEvent runs after commit. A failed publish is logged and never
// undoes the sale.
func publishSaleEvent(ctx context.Context, p common.EventPublisher, log *zap.SugaredLogger, typ string, sale *gormModels.Sale, actor string, at time.Time) {
	ev := &common.SaleEvent{
		Type:       typ,
		SaleID:     sale.ID,
		SaleNumber: sale.SaleNumber,
		RouteID:    sale.RouteID,
		VesselID:   sale.VesselID,
		TravelDate: sale.TravelDate,
		TravelTime: sale.TravelTime,
		Seats:      sale.PassengerCount,
		Total:      sale.Total,
		Actor:      actor,
		At:         at,
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Warnw("sale event not published", "type", typ, "sale_number", sale.SaleNumber, "error", err)
	}
}
