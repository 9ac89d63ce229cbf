package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"river-transit/ticketdesk/internal/constants"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidSaleTransition = errors.New("sale is not CONFIRMED")
	ErrDuplicateSaleNumber   = errors.New("sale number already exists")
)

// ValidationError collects field-level messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e when any field failed.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func newValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// CapacityExceededError rejects a sale larger than the remaining seats.
type CapacityExceededError struct {
	Available int
	Requested int
}

func (e *CapacityExceededError) Error() string {
	if e.Available <= 0 {
		return fmt.Sprintf("departure is sold out, %d seats requested", e.Requested)
	}
	return fmt.Sprintf("only %d seats available, %d requested", e.Available, e.Requested)
}

// ScheduleMismatchError rejects a date or time the assignment does not sail.
type ScheduleMismatchError struct {
	Date          string
	Time          string
	Weekday       string
	WrongDay      bool
	ValidWeekdays []string
	ValidTimes    []string
}

func (e *ScheduleMismatchError) Error() string {
	if e.WrongDay {
		return fmt.Sprintf("vessel does not operate on %s (%s); operating days: %s",
			e.Weekday, e.Date, strings.Join(e.ValidWeekdays, ", "))
	}
	return fmt.Sprintf("no departure at %s; departure times: %s", e.Time, strings.Join(e.ValidTimes, ", "))
}

// OperatorVesselConflictError reports a vessel already held by another ACTIVO operator.
type OperatorVesselConflictError struct {
	VesselID     string
	OperatorID   string
	OperatorName string
}

func (e *OperatorVesselConflictError) Error() string {
	return fmt.Sprintf("vessel %s is already assigned to active operator %s", e.VesselID, e.OperatorName)
}

// VesselUnavailableError rejects sales on a vessel that is out of service.
type VesselUnavailableError struct {
	VesselID string
	Status   constants.VesselStatus
}

func (e *VesselUnavailableError) Error() string {
	return fmt.Sprintf("vessel %s is %s and cannot be sold", e.VesselID, e.Status)
}

// RejectReason maps an admission error to a metrics label.
func RejectReason(err error) string {
	var (
		ve *ValidationError
		ce *CapacityExceededError
		se *ScheduleMismatchError
		ue *VesselUnavailableError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ce):
		return "capacity"
	case errors.As(err, &se):
		return "schedule"
	case errors.As(err, &ue):
		return "vessel_unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateSaleNumber):
		return "duplicate_number"
	}
	return "internal"
}
