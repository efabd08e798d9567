package sync

import (
	"context"
	"time"

	"go-synchub/internal/config"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Persister splits records into bounded batches and upserts them into the
// central store. A failing batch aborts the remaining batches for that data
// type; earlier batches stay committed (at-least-once, not atomic).
type Persister struct {
	store      RecordStore
	batchSize  int
	batchDelay time.Duration
	maxRetries int
	logger     *zap.Logger
}

func NewPersister(store RecordStore, cfg *config.Config, logger *zap.Logger) *Persister {
	batchSize := cfg.SyncBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Persister{
		store:      store,
		batchSize:  batchSize,
		batchDelay: time.Duration(cfg.BatchDelayMs) * time.Millisecond,
		maxRetries: cfg.PersistMaxRetries,
		logger:     logger,
	}
}

// Persist returns the number of records committed, which on failure covers
// the batches before the failing one.
func (p *Persister) Persist(ctx context.Context, records []ExternalRecord) (int, error) {
	persisted := 0

	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		batchNum := start/p.batchSize + 1

		if err := p.upsertWithRetry(ctx, batch); err != nil {
			return persisted, &PersistError{Batch: batchNum, Err: err}
		}
		persisted += len(batch)

		// Pause between batches so bulk writes don't trip the store's rate limits.
		if end < len(records) && p.batchDelay > 0 {
			select {
			case <-time.After(p.batchDelay):
			case <-ctx.Done():
				return persisted, ctx.Err()
			}
		}
	}

	return persisted, nil
}

func (p *Persister) upsertWithRetry(ctx context.Context, batch []ExternalRecord) error {
	maxTries := uint(p.maxRetries)
	if maxTries == 0 {
		maxTries = 1
	}

	operation := func() (struct{}, error) {
		if err := p.store.UpsertBatch(ctx, batch); err != nil {
			p.logger.Warn("retrying batch upsert", zap.Int("batch_size", len(batch)), zap.Error(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxTries))
	return err
}
