package db

import (
	"fmt"

	"river-transit/ticketdesk/internal/logging"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var PgDB *gorm.DB

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	PgDB = db
	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// Models lists every table owned by the ticket desk, parents first.
func Models() []interface{} {
	return []interface{}{
		&gormModels.Port{},
		&gormModels.Vessel{},
		&gormModels.Route{},
		&gormModels.VesselAssignment{},
		&gormModels.Operator{},
		&gormModels.Client{},
		&gormModels.Sale{},
		&gormModels.SalePayment{},
		&gormModels.SaleSequence{},
		&gormModels.DepartureLoad{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
