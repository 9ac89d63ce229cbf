package repositories

import (
	"context"
	"fmt"

	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// LoadBoardRepo reads the materialized departure loads with plain SQL.
type LoadBoardRepo struct {
	db *sqlx.DB
}

func NewLoadBoardRepo(db *sqlx.DB) *LoadBoardRepo {
	return &LoadBoardRepo{db: db}
}

// ListByDate returns the load of every departure on date that sold at least once.
func (r *LoadBoardRepo) ListByDate(ctx context.Context, date string) ([]entities.DepartureLoadRow, error) {
	rows := []entities.DepartureLoadRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.ListDepartureLoadsByDate), date); err != nil {
		return nil, fmt.Errorf("list departure loads: %w", err)
	}
	return rows, nil
}
