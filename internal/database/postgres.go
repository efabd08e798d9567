package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"go-synchub/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// RecordDB wraps the central record store where normalized external records land.
type RecordDB struct {
	DB *sql.DB
}

// NewRecordDB opens the Postgres record store with lifecycle management
func NewRecordDB(lc fx.Lifecycle, cfg *config.Config) (*RecordDB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping record store: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Connected to Postgres record store!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing record store connection...")
			return db.Close()
		},
	})

	return &RecordDB{DB: db}, nil
}

// EnsureSchema creates the external_records table and its natural-key index
// if they do not exist yet.
func (r *RecordDB) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS external_records (
			tenant_id   TEXT NOT NULL,
			api_source  TEXT NOT NULL,
			data_type   TEXT NOT NULL,
			external_id TEXT NOT NULL,
			data        JSONB NOT NULL,
			last_sync   TIMESTAMPTZ NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (tenant_id, api_source, data_type, external_id)
		)`)
	return err
}
