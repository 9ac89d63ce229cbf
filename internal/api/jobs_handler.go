package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/jobs"
	"river-transit/ticketdesk/internal/logging"
	"river-transit/ticketdesk/internal/schedule"
	"river-transit/ticketdesk/internal/services"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	reconcileJob *jobs.LoadReconcileJob
}

func NewJobsHandler(reconcileJob *jobs.LoadReconcileJob) *JobsHandler {
	return &JobsHandler{reconcileJob: reconcileJob}
}

type reconcileRunResponse struct {
	TriggeredBy string                `json:"triggered_by"`
	TriggeredAt string                `json:"triggered_at"`
	DurationMs  int                   `json:"duration_ms"`
	Result      *jobs.ReconcileResult `json:"result"`
}

// TriggerReconcile handles POST /api/v1/admin/jobs/reconcile-loads
func (h *JobsHandler) TriggerReconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		triggeredBy := actorOf(r)

		logging.Info("load reconcile manually triggered", "triggered_by", triggeredBy)

		result, err := h.reconcileJob.Run(r.Context())
		if errors.Is(err, jobs.ErrJobRunning) {
			common.RespondError(w, start, err, "", http.StatusConflict)
			return
		}
		if err != nil {
			logging.Error("manual load reconcile failed", "error", err)
			common.RespondError(w, start, nil, "Failed to run reconcile", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, start, "Load reconcile completed", reconcileRunResponse{
			TriggeredBy: triggeredBy,
			TriggeredAt: start.Format(time.RFC3339),
			DurationMs:  int(time.Since(start).Milliseconds()),
			Result:      result,
		})
	}
}

// GetJobStatus handles GET /api/v1/admin/jobs/status
func (h *JobsHandler) GetJobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		common.RespondSuccess(w, start, "Job status retrieved", []jobs.JobStatus{h.reconcileJob.Status()})
	}
}

// DepartureLoadsHandler handles GET /api/v1/admin/loads?date=YYYY-MM-DD
func DepartureLoadsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		date := r.URL.Query().Get("date")
		if _, err := schedule.ParseDate(date); err != nil {
			respondServiceError(w, r, initTime, &services.ValidationError{Fields: map[string]string{"date": err.Error()}})
			return
		}

		rows, err := deps.Repo.LoadBoard.ListByDate(r.Context(), date)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Departure loads", rows)
	}
}

// RecentSaleEventsHandler handles GET /api/v1/admin/events?count=50
func RecentSaleEventsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if deps.Events == nil {
			common.RespondError(w, initTime, nil, "Sale event stream is not configured", http.StatusNotImplemented)
			return
		}

		count, err := strconv.ParseInt(r.URL.Query().Get("count"), 10, 64)
		if err != nil || count <= 0 || count > 500 {
			count = 50
		}

		events, err := deps.Events.Recent(r.Context(), count)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Recent sale events", events)
	}
}
