package sync

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SyncStatus string

const (
	StatusSyncing SyncStatus = "syncing"
	StatusSuccess SyncStatus = "success"
	StatusError   SyncStatus = "error"
)

// ExternalRecord is the normalized unit persisted to the central store.
// (tenant_id, api_source, data_type, external_id) is the natural key; a later
// sync with the same key overwrites payload, updated_at and last_sync only.
type ExternalRecord struct {
	TenantID   string                 `json:"tenant_id"`
	Source     string                 `json:"api_source"`
	DataType   string                 `json:"data_type"`
	ExternalID string                 `json:"external_id"`
	Payload    map[string]interface{} `json:"data"`
	LastSync   time.Time              `json:"last_sync"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// SyncResult is the per-(tenant, data type) outcome of one cycle. Never
// mutated after creation.
type SyncResult struct {
	Success          bool      `json:"success"`
	DataType         string    `json:"data_type"` // e.g. "wbuy_produtos"
	RecordsProcessed int       `json:"records_processed"`
	Errors           []string  `json:"errors,omitempty"`
	SyncedAt         time.Time `json:"synced_at"`
}

// SyncStatusRecord is the durable "latest attempt" row, upserted by
// (tenant_id, entity_type).
type SyncStatusRecord struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID   string             `json:"tenant_id" bson:"tenant_id"`
	EntityType string             `json:"entity_type" bson:"entity_type"`
	Status     SyncStatus         `json:"status" bson:"status"`
	Error      string             `json:"error,omitempty" bson:"error,omitempty"`
	LastSyncAt time.Time          `json:"last_sync_at" bson:"last_sync_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// SyncRun is one append-only history row per (cycle, tenant, entity type).
type SyncRun struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID         string             `json:"tenant_id" bson:"tenant_id"`
	EntityType       string             `json:"entity_type" bson:"entity_type"`
	Status           SyncStatus         `json:"status" bson:"status"`
	RecordsProcessed int                `json:"records_processed" bson:"records_processed"`
	Errors           []string           `json:"errors,omitempty" bson:"errors,omitempty"`
	StartTime        time.Time          `json:"start_time" bson:"start_time"`
	EndTime          time.Time          `json:"end_time" bson:"end_time"`
}

// SchedulerStatus is computed from live timer state, not persisted.
type SchedulerStatus struct {
	IsRunning       bool       `json:"is_running"`
	IntervalMinutes int        `json:"interval_minutes"`
	TenantsCount    int        `json:"tenants_count"`
	NextRun         *time.Time `json:"next_run"`
}

// StatisticsRow is one line of the operator statistics view: latest status
// joined with the persisted record count.
type StatisticsRow struct {
	TenantID    string     `json:"tenant_id"`
	EntityType  string     `json:"entity_type"`
	Status      SyncStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	LastSyncAt  time.Time  `json:"last_sync_at"`
	RecordCount int        `json:"record_count"`
}
