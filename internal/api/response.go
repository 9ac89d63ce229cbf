package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"river-transit/ticketdesk/internal/auth"
	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/logging"
	"river-transit/ticketdesk/internal/schedule"
	"river-transit/ticketdesk/internal/services"
)

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%s: %w", constants.MsgInvalidJSON, err)
	}
	return nil
}

// actorOf names the caller for audit fields.
func actorOf(r *http.Request) string {
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		return claims.UserID()
	}
	return "anonymous"
}

// respondServiceError maps service errors to status codes. Rejections carry
// their details in data so a desk can show remaining seats or valid times.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error) {
	var (
		ve *services.ValidationError
		se *services.ScheduleMismatchError
		ce *services.CapacityExceededError
		oe *services.OperatorVesselConflictError
		ue *services.VesselUnavailableError
	)

	switch {
	case errors.As(err, &ve):
		common.RespondErrorData(w, initTime, nil, constants.MsgValidationFailed,
			map[string]any{"fields": ve.Fields}, http.StatusBadRequest)

	case errors.As(err, &se):
		days := make([]string, 0, len(se.ValidWeekdays))
		for _, d := range se.ValidWeekdays {
			days = append(days, schedule.DisplayWeekday(d))
		}
		common.RespondErrorData(w, initTime, se, constants.MsgScheduleMismatch,
			map[string]any{"valid_weekdays": days, "valid_times": se.ValidTimes}, http.StatusUnprocessableEntity)

	case errors.As(err, &ce):
		common.RespondErrorData(w, initTime, ce, constants.MsgCapacityExceeded,
			map[string]any{"available": ce.Available, "requested": ce.Requested}, http.StatusConflict)

	case errors.As(err, &oe):
		common.RespondErrorData(w, initTime, oe, constants.MsgVesselOccupied,
			map[string]any{"vessel_id": oe.VesselID, "operator_id": oe.OperatorID, "operator_name": oe.OperatorName},
			http.StatusConflict)

	case errors.As(err, &ue):
		common.RespondErrorData(w, initTime, ue, constants.MsgVesselUnavailable,
			map[string]any{"vessel_id": ue.VesselID, "status": ue.Status}, http.StatusUnprocessableEntity)

	case errors.Is(err, services.ErrNotFound):
		common.RespondError(w, initTime, err, constants.MsgNotFound, http.StatusNotFound)

	case errors.Is(err, services.ErrInvalidSaleTransition):
		common.RespondError(w, initTime, nil, constants.MsgInvalidTransition, http.StatusConflict)

	case errors.Is(err, services.ErrDuplicateSaleNumber):
		common.RespondError(w, initTime, nil, constants.MsgDuplicateSaleNumber, http.StatusConflict)

	case errors.Is(err, locks.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		common.RespondError(w, initTime, nil, "Departure is busy, please retry", http.StatusServiceUnavailable)

	default:
		logging.WithRequest(auth.GetRequestID(r.Context()), actorOf(r), r.URL.Path).
			Errorw("request failed", "error", err)
		common.RespondError(w, initTime, nil, constants.MsgInternal, http.StatusInternalServerError)
	}
}
