package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/models/dtos"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
	"river-transit/ticketdesk/internal/services"

	"github.com/go-chi/chi/v5"
)

// CreateSaleHandler handles POST /api/v1/sales
func CreateSaleHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateSaleRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		sale, err := deps.Services.Admission.Admit(r.Context(), saleInput(req, actorOf(r)))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Sale created", dtos.NewSaleResponse(sale), http.StatusCreated)
	}
}

// saleInput maps the request body. A UNICO sale may name its single method in
// payment_method instead of the payments list.
func saleInput(req dtos.CreateSaleRequest, seller string) services.CreateSaleInput {
	ptype := constants.PaymentType(strings.ToUpper(strings.TrimSpace(req.PaymentType)))

	payments := make([]services.PaymentInput, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, services.PaymentInput{
			Method: constants.PaymentMethod(strings.ToUpper(strings.TrimSpace(p.Method))),
			Amount: p.Amount,
		})
	}
	if ptype == constants.PaymentSingle && len(payments) == 0 && req.PaymentMethod != "" {
		payments = append(payments, services.PaymentInput{
			Method: constants.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
		})
	}

	return services.CreateSaleInput{
		ClientID:     req.ClientID,
		RouteID:      req.RouteID,
		VesselID:     req.VesselID,
		EmbarkPortID: req.EmbarkPortID,
		TravelDate:   req.TravelDate,
		TravelTime:   req.TravelTime,
		EmbarkTime:   req.EmbarkTime,
		Quantity:     req.PassengerCount,
		CustomPrice:  req.CustomPrice,
		PaymentType:  ptype,
		Payments:     payments,
		SellerID:     seller,
	}
}

// GetSaleHandler handles GET /api/v1/sales/{id}
func GetSaleHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sale, err := deps.Services.Lifecycle.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sale found", dtos.NewSaleResponse(sale))
	}
}

// FindSaleHandler handles GET /api/v1/sales?number=VTA-2025-000001
func FindSaleHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		number := r.URL.Query().Get("number")
		if number == "" {
			respondServiceError(w, r, initTime, &services.ValidationError{Fields: map[string]string{"number": "is required"}})
			return
		}

		sale, err := deps.Services.Lifecycle.GetByNumber(r.Context(), number)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sale found", dtos.NewSaleResponse(sale))
	}
}

// VoidSaleHandler handles POST /api/v1/sales/{id}/void
func VoidSaleHandler(deps *Dependencies) http.HandlerFunc {
	return transitionHandler(deps.Services.Lifecycle.Void, "Sale voided")
}

// RefundSaleHandler handles POST /api/v1/sales/{id}/refund
func RefundSaleHandler(deps *Dependencies) http.HandlerFunc {
	return transitionHandler(deps.Services.Lifecycle.Refund, "Sale refunded")
}

type saleTransition func(ctx context.Context, id, reason, actor string) (*gormModels.Sale, error)

func transitionHandler(apply saleTransition, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SaleTransitionRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		sale, err := apply(r.Context(), chi.URLParam(r, "id"), req.Reason, actorOf(r))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, message, dtos.NewSaleResponse(sale))
	}
}
