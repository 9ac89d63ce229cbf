package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/logging"
	"river-transit/ticketdesk/internal/metrics"
	"river-transit/ticketdesk/internal/schedule"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrJobRunning is returned by Run while another run is in progress.
var ErrJobRunning = errors.New("reconcile already running")

// reconcileLookback is how far back past departures are still checked.
const reconcileLookback = 7 * 24 * time.Hour

// JobStatus is the last outcome of a job.
type JobStatus struct {
	Name         string     `json:"name"`
	Running      bool       `json:"running"`
	Interval     string     `json:"interval"`
	LastRunAt    *time.Time `json:"last_run_at,omitempty"`
	LastDuration string     `json:"last_duration,omitempty"`
	LastChecked  int        `json:"last_checked"`
	LastRepaired int        `json:"last_repaired"`
	LastError    string     `json:"last_error,omitempty"`
}

// ReconcileResult summarizes one run.
type ReconcileResult struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
}

// LoadReconcileJob rebuilds departure_loads.sold from CONFIRMED sales.
type LoadReconcileJob struct {
	db      *gorm.DB
	locker  locks.Locker
	metrics *metrics.MetricsRegistry
	now     func() time.Time
	log     *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	status  JobStatus
}

func NewLoadReconcileJob(db *gorm.DB, locker locks.Locker, m *metrics.MetricsRegistry) *LoadReconcileJob {
	return &LoadReconcileJob{
		db:      db,
		locker:  locker,
		metrics: m,
		now:     time.Now,
		log:     logging.Named("reconcile"),
		status:  JobStatus{Name: "departure_load_reconcile"},
	}
}

// Run compares every recent departure load with its sales and repairs drift.
func (j *LoadReconcileJob) Run(ctx context.Context) (*ReconcileResult, error) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil, ErrJobRunning
	}
	j.running = true
	j.mu.Unlock()

	start := j.now()
	res, err := j.run(ctx)
	elapsed := time.Since(start)
	j.metrics.JobDuration.WithLabelValues(j.status.Name).Observe(elapsed.Seconds())

	j.mu.Lock()
	j.running = false
	j.status.LastRunAt = &start
	j.status.LastDuration = elapsed.Truncate(time.Millisecond).String()
	j.status.LastError = ""
	if err != nil {
		j.status.LastError = err.Error()
	} else {
		j.status.LastChecked = res.Checked
		j.status.LastRepaired = res.Repaired
	}
	j.mu.Unlock()

	if err != nil {
		j.log.Errorw("reconcile failed", "error", err)
		return nil, err
	}
	j.log.Infow("reconcile completed", "checked", res.Checked, "repaired", res.Repaired, "duration", elapsed.String())
	return res, nil
}

func (j *LoadReconcileJob) run(ctx context.Context) (*ReconcileResult, error) {
	from := schedule.FormatDate(j.now().UTC().Add(-reconcileLookback))
	sales := repositories.NewSaleRepository(j.db)
	loads := repositories.NewDepartureLoadRepository(j.db)

	confirmed, err := sales.ConfirmedLoadsSince(ctx, from)
	if err != nil {
		return nil, err
	}
	stored, err := loads.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}

	expected := make(map[repositories.DepartureKey]int, len(confirmed))
	for _, c := range confirmed {
		expected[repositories.DepartureKey{RouteID: c.RouteID, VesselID: c.VesselID, Date: c.TravelDate, Time: c.TravelTime}] = c.Sold
	}
	actual := make(map[repositories.DepartureKey]int, len(stored))
	for _, l := range stored {
		k := repositories.DepartureKey{RouteID: l.RouteID, VesselID: l.VesselID, Date: l.TravelDate, Time: l.DepartureTime}
		actual[k] = l.Sold
		if _, ok := expected[k]; !ok {
			expected[k] = 0
		}
	}

	res := &ReconcileResult{Checked: len(expected)}
	for k, want := range expected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if got, ok := actual[k]; ok && got == want {
			continue
		}
		fixed, err := j.repair(ctx, k)
		if err != nil {
			return nil, err
		}
		if fixed {
			res.Repaired++
		}
	}
	return res, nil
}

// repair recomputes one departure under its lock, since sales may have
// landed after the snapshot above.
func (j *LoadReconcileJob) repair(ctx context.Context, k repositories.DepartureKey) (bool, error) {
	release, err := j.locker.Lock(ctx, k.LockKey())
	if err != nil {
		return false, fmt.Errorf("lock departure: %w", err)
	}
	defer release()

	fixed := false
	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loads := repositories.NewDepartureLoadRepository(tx)
		load, err := loads.Lock(ctx, k)
		if err != nil {
			return err
		}
		sold, err := repositories.NewSaleRepository(tx).SumConfirmed(ctx, k)
		if err != nil {
			return err
		}
		if load.Sold == sold {
			return nil
		}

		j.log.Warnw("departure load drift",
			"route_id", k.RouteID, "vessel_id", k.VesselID, "date", k.Date, "time", k.Time,
			"stored", load.Sold, "actual", sold)
		fixed = true
		return loads.Set(ctx, k, sold)
	})
	if err != nil {
		return false, err
	}
	if fixed {
		j.metrics.LoadDriftTotal.Inc()
	}
	return fixed, nil
}

// RunScheduled runs the job every interval until ctx is done.
func (j *LoadReconcileJob) RunScheduled(ctx context.Context, interval time.Duration) {
	j.mu.Lock()
	j.status.Interval = interval.String()
	j.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := j.Run(ctx); err != nil && !errors.Is(err, ErrJobRunning) {
		j.log.Errorw("initial reconcile failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil && !errors.Is(err, ErrJobRunning) {
				j.log.Errorw("scheduled reconcile failed", "error", err)
			}
		case <-ctx.Done():
			j.log.Infow("shutting down scheduled reconcile")
			return
		}
	}
}

// Status returns a snapshot of the last run.
func (j *LoadReconcileJob) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	st := j.status
	st.Running = j.running
	return st
}
