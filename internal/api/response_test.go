package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"quantity": "must be greater than zero"}}, http.StatusBadRequest, "quantity"},
		{"schedule", &services.ScheduleMismatchError{WrongDay: true, ValidWeekdays: []string{"SABADO"}}, http.StatusUnprocessableEntity, "Sábado"},
		{"capacity", fmt.Errorf("admit: %w", &services.CapacityExceededError{Available: 1, Requested: 4}), http.StatusConflict, `"available":1`},
		{"operator conflict", &services.OperatorVesselConflictError{VesselID: "v", OperatorID: "o", OperatorName: "Luis"}, http.StatusConflict, "Luis"},
		{"vessel unavailable", &services.VesselUnavailableError{VesselID: "v", Status: "MAINTENANCE"}, http.StatusUnprocessableEntity, "MAINTENANCE"},
		{"not found", fmt.Errorf("sale x: %w", services.ErrNotFound), http.StatusNotFound, "not found"},
		{"transition", services.ErrInvalidSaleTransition, http.StatusConflict, "no longer"},
		{"duplicate number", services.ErrDuplicateSaleNumber, http.StatusConflict, "retry"},
		{"lock timeout", fmt.Errorf("departure: %w", locks.ErrLockTimeout), http.StatusServiceUnavailable, "busy"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil)
			rec := httptest.NewRecorder()

			respondServiceError(rec, req, time.Now(), tc.err)

			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
			assert.Contains(t, rec.Body.String(), `"status":"error"`)
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/x", nil)
	rec := httptest.NewRecorder()

	respondServiceError(rec, req, time.Now(), errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password")
}
