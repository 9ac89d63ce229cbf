package api

import (
	"context"
	"net/http"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/models/entities"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler handles GET /healthCheck. The redis client is optional.
func HealthCheckHandler(db *sqlx.DB, rdb *redis.Client, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		deps := map[string]entities.DependencyStatus{
			"database": ping(r.Context(), db.PingContext),
		}
		if rdb != nil {
			deps["redis"] = ping(r.Context(), func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})
		}

		overall := "ok"
		for _, d := range deps {
			if d.Status != "ok" {
				overall = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Status:       overall,
			Dependencies: deps,
			UpSince:      upSince,
			Uptime:       time.Since(upSince).Round(time.Second).String(),
		}

		if overall != "ok" {
			common.RespondErrorData(w, initTime, nil, "Service degraded", resp, http.StatusServiceUnavailable)
			return
		}
		common.RespondSuccess(w, initTime, "ok", resp)
	}
}

func ping(ctx context.Context, fn func(context.Context) error) entities.DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	st := entities.DependencyStatus{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		st.Status, st.Details = "down", err.Error()
	}
	return st
}
