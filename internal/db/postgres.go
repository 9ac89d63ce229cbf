package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DB *sqlx.DB

// apiKeysDDL is owned by sqlx rather than GORM; keys are issued by cmd/api_key_gen.
const apiKeysDDL = `
CREATE TABLE IF NOT EXISTS api_keys (
	key        VARCHAR(64) PRIMARY KEY,
	label      VARCHAR(100) NOT NULL,
	role       VARCHAR(20) NOT NULL,
	status     VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func InitPostgres(dsn string) error {
	var err error

	for i := 0; i < 10; i++ {
		DB, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("connect postgres (sqlx): %w", err)
}

// EnsureAPIKeysTable creates the api_keys table when missing.
func EnsureAPIKeysTable(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, apiKeysDDL); err != nil {
		return fmt.Errorf("create api_keys: %w", err)
	}
	return nil
}
