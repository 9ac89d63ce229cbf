package jobs

import (
	"context"
	"time"

	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/metrics"

	"gorm.io/gorm"
)

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(
	ctx context.Context,
	db *gorm.DB,
	locker locks.Locker,
	m *metrics.MetricsRegistry,
	reconcileInterval time.Duration,
) *LoadReconcileJob {
	reconcileJob := NewLoadReconcileJob(db, locker, m)

	// Start scheduled reconcile in background
	go reconcileJob.RunScheduled(ctx, reconcileInterval)

	return reconcileJob
}
