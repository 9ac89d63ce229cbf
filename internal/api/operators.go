package api

import (
	"net/http"
	"strings"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/models/dtos"
	"river-transit/ticketdesk/internal/services"

	"github.com/go-chi/chi/v5"
)

func CreateOperatorHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateOperatorRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		op, err := deps.Services.Catalog.CreateOperator(r.Context(), services.CreateOperatorInput{
			FullName:         req.FullName,
			Document:         req.Document,
			AssignedVesselID: req.AssignedVesselID,
		})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Operator created", dtos.NewOperatorResponse(op), http.StatusCreated)
	}
}

func ListOperatorsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ops, err := deps.Services.Catalog.ListOperators(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Operators", dtos.MapSlice(ops, dtos.NewOperatorResponse))
	}
}

// VesselOccupancyHandler handles GET /api/v1/vessels/{id}/occupancy. It is
// advisory only; the assignment endpoint enforces the rule itself.
func VesselOccupancyHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		occ, err := deps.Services.Operators.IsVesselOccupied(r.Context(),
			chi.URLParam(r, "id"), r.URL.Query().Get("exclude_operator_id"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		msg := "Vessel is free"
		if occ.Occupied {
			msg = constants.MsgVesselOccupied
		}
		common.RespondSuccess(w, initTime, msg, occ)
	}
}

// AssignOperatorVesselHandler handles PUT /api/v1/operators/{id}/vessel
func AssignOperatorVesselHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AssignVesselRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		op, err := deps.Services.Operators.AssignVessel(r.Context(), chi.URLParam(r, "id"), req.VesselID)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Vessel assigned", dtos.NewOperatorResponse(op))
	}
}

// ReleaseOperatorVesselHandler handles DELETE /api/v1/operators/{id}/vessel
func ReleaseOperatorVesselHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		op, err := deps.Services.Operators.ReleaseVessel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Vessel released", dtos.NewOperatorResponse(op))
	}
}

// UpdateOperatorStatusHandler handles PATCH /api/v1/operators/{id}/status
func UpdateOperatorStatusHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateOperatorStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		status := constants.OperatorStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		op, err := deps.Services.Operators.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Operator status updated", dtos.NewOperatorResponse(op))
	}
}
