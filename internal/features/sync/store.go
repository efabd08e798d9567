package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go-synchub/internal/database"
)

// RecordStore is the central store for normalized external records.
type RecordStore interface {
	UpsertBatch(ctx context.Context, records []ExternalRecord) error
	CountByDataType(ctx context.Context) (map[string]map[string]int, error)
}

type PostgresRecordStore struct {
	db *database.RecordDB
}

func NewPostgresRecordStore(db *database.RecordDB) RecordStore {
	return &PostgresRecordStore{db: db}
}

// UpsertBatch writes one batch with conflict resolution on the natural key.
// created_at is deliberately left out of the update list so it survives from
// the first insertion.
func (s *PostgresRecordStore) UpsertBatch(ctx context.Context, records []ExternalRecord) error {
	if len(records) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(records))
	values := make([]interface{}, 0, len(records)*8)

	for i, record := range records {
		payload, err := json.Marshal(record.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload for %s: %w", record.ExternalID, err)
		}

		base := i * 8
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		values = append(values,
			record.TenantID, record.Source, record.DataType, record.ExternalID,
			payload, record.LastSync, record.CreatedAt, record.UpdatedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO external_records
			(tenant_id, api_source, data_type, external_id, data, last_sync, created_at, updated_at)
		VALUES %s
		ON CONFLICT (tenant_id, api_source, data_type, external_id)
		DO UPDATE SET
			data = EXCLUDED.data,
			last_sync = EXCLUDED.last_sync,
			updated_at = EXCLUDED.updated_at`,
		strings.Join(placeholders, ", "))

	if _, err := s.db.DB.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to upsert batch: %w", err)
	}
	return nil
}

// CountByDataType returns persisted record counts keyed by tenant and then by
// "<source>_<data type>".
func (s *PostgresRecordStore) CountByDataType(ctx context.Context) (map[string]map[string]int, error) {
	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT tenant_id, api_source, data_type, COUNT(*)
		FROM external_records
		GROUP BY tenant_id, api_source, data_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := map[string]map[string]int{}
	for rows.Next() {
		var tenantID, source, dataType string
		var count int
		if err := rows.Scan(&tenantID, &source, &dataType, &count); err != nil {
			return nil, err
		}
		if counts[tenantID] == nil {
			counts[tenantID] = map[string]int{}
		}
		counts[tenantID][source+"_"+dataType] = count
	}
	return counts, rows.Err()
}
