package sync

import (
	"context"
	"time"

	"go-synchub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusRepository persists sync bookkeeping: sync_status holds only the
// latest attempt per (tenant, entity type) and is overwritten forever;
// sync_runs is the append-only history.
type StatusRepository interface {
	UpsertStatus(ctx context.Context, tenantID, entityType string, status SyncStatus, errMsg string) error
	ListStatuses(ctx context.Context, tenantID string) ([]SyncStatusRecord, error)
	AppendRun(ctx context.Context, run *SyncRun) error
	ListRuns(ctx context.Context, tenantID string, limit int64) ([]SyncRun, error)
}

type StatusRepositoryImpl struct {
	statuses *mongo.Collection
	runs     *mongo.Collection
}

func NewStatusRepository(db *database.MongodbDB) StatusRepository {
	return &StatusRepositoryImpl{
		statuses: db.DB.Collection("sync_status"),
		runs:     db.DB.Collection("sync_runs"),
	}
}

func (r *StatusRepositoryImpl) UpsertStatus(ctx context.Context, tenantID, entityType string, status SyncStatus, errMsg string) error {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"status":       status,
			"error":        errMsg,
			"last_sync_at": now,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.statuses.UpdateOne(
		ctx,
		bson.M{"tenant_id": tenantID, "entity_type": entityType},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *StatusRepositoryImpl) ListStatuses(ctx context.Context, tenantID string) ([]SyncStatusRecord, error) {
	filter := bson.M{}
	if tenantID != "" {
		filter["tenant_id"] = tenantID
	}

	opts := options.Find().SetSort(bson.D{{Key: "tenant_id", Value: 1}, {Key: "entity_type", Value: 1}})
	cursor, err := r.statuses.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var statuses []SyncStatusRecord
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *StatusRepositoryImpl) AppendRun(ctx context.Context, run *SyncRun) error {
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	if run.StartTime.IsZero() {
		run.StartTime = time.Now()
	}

	_, err := r.runs.InsertOne(ctx, run)
	return err
}

func (r *StatusRepositoryImpl) ListRuns(ctx context.Context, tenantID string, limit int64) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{}
	if tenantID != "" {
		filter["tenant_id"] = tenantID
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}}).SetLimit(limit)
	cursor, err := r.runs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []SyncRun
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
