package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ErrKeyNotFound is returned when no api key matches.
var ErrKeyNotFound = errors.New("api key not found")

type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

func (r *KeysRepo) GetStatus(ctx context.Context, key string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.GetApiKey), key).StructScan(&keyRes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup api key: %w", err)
	}

	return &keyRes, nil
}

// Insert stores a new key.
func (r *KeysRepo) Insert(ctx context.Context, k *entities.ApiKey) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO api_keys (key, label, role, status) VALUES (?, ?, ?, ?)`),
		k.Key, k.Label, k.Role, k.Status)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}
