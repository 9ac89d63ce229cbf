package api

import (
	"net/http"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/models/dtos"
	"river-transit/ticketdesk/internal/services"

	"github.com/go-chi/chi/v5"
)

// CheckAvailabilityHandler handles POST /api/v1/availability/check
func CheckAvailabilityHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AvailabilityCheckRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, err := deps.Services.Availability.Check(r.Context(), services.AvailabilityQuery{
			RouteID:  req.RouteID,
			VesselID: req.VesselID,
			Date:     req.Date,
			Time:     req.Time,
			Quantity: req.Quantity,
		})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, result.Message, result)
	}
}

// DepartureBoardHandler handles GET /api/v1/routes/{id}/departures?date=
func DepartureBoardHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		board, err := deps.Services.Availability.Board(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("date"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Departure board", board)
	}
}
