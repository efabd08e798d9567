package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-synchub/internal/config"
	"go-synchub/internal/connectors"
	"go-synchub/internal/features/integration"
	"go-synchub/internal/features/tenant"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type SyncService interface {
	// SyncAll runs one full cycle: every active tenant, sequentially, with an
	// inter-tenant delay so the source APIs are not hammered.
	SyncAll(ctx context.Context) error
	SyncTenant(ctx context.Context, tenantID string) []SyncResult

	GetStatistics(ctx context.Context) ([]StatisticsRow, error)
	ExportStatistics(ctx context.Context) ([]byte, string, error)
	ListRuns(ctx context.Context, tenantID string, limit int64) ([]SyncRun, error)
	TenantCount(ctx context.Context) int
}

type SyncServiceImpl struct {
	TenantRepo   tenant.TenantRepository
	Integrations integration.IntegrationService
	Connector    connectors.SourceConnector
	Normalizer   *Normalizer
	Persister    *Persister
	Store        RecordStore
	StatusRepo   StatusRepository
	Events       *EventBus
	Logger       *zap.Logger

	tenantDelay time.Duration
}

func NewSyncService(
	tenantRepo tenant.TenantRepository,
	integrations integration.IntegrationService,
	connector connectors.SourceConnector,
	persister *Persister,
	store RecordStore,
	statusRepo StatusRepository,
	events *EventBus,
	cfg *config.Config,
	logger *zap.Logger,
) SyncService {
	return &SyncServiceImpl{
		TenantRepo:   tenantRepo,
		Integrations: integrations,
		Connector:    connector,
		Normalizer:   NewNormalizer(),
		Persister:    persister,
		Store:        store,
		StatusRepo:   statusRepo,
		Events:       events,
		Logger:       logger,
		tenantDelay:  time.Duration(cfg.TenantDelaySeconds) * time.Second,
	}
}

func (s *SyncServiceImpl) SyncAll(ctx context.Context) error {
	tenants, err := s.TenantRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active tenants: %w", err)
	}

	s.Logger.Info("starting sync cycle", zap.Int("tenants", len(tenants)))

	for i, t := range tenants {
		if i > 0 && s.tenantDelay > 0 {
			select {
			case <-time.After(s.tenantDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		results := s.SyncTenant(ctx, t.Slug)

		succeeded := 0
		for _, result := range results {
			if result.Success {
				succeeded++
			}
		}
		s.Logger.Info("tenant sync finished",
			zap.String("tenant_id", t.Slug),
			zap.Int("succeeded", succeeded),
			zap.Int("failed", len(results)-succeeded))

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return nil
}

// SyncTenant processes every data type of every source for one tenant. Each
// data type is isolated: its failure never aborts siblings.
func (s *SyncServiceImpl) SyncTenant(ctx context.Context, tenantID string) []SyncResult {
	sources, err := s.Integrations.ResolveSources(ctx, tenantID)
	if err != nil {
		s.Logger.Error("failed to resolve sources",
			zap.String("tenant_id", tenantID), zap.Error(err))
		return nil
	}

	var results []SyncResult
	for _, src := range sources {
		for _, dataType := range src.DataTypes {
			entityType := src.Credentials.Source + "_" + dataType
			start := time.Now()

			if err := s.StatusRepo.UpsertStatus(ctx, tenantID, entityType, StatusSyncing, ""); err != nil {
				s.Logger.Warn("failed to mark syncing", zap.String("tenant_id", tenantID), zap.Error(err))
			}

			result := s.syncDataType(ctx, tenantID, src, dataType)

			status := StatusSuccess
			errMsg := ""
			if !result.Success {
				status = StatusError
				errMsg = strings.Join(result.Errors, "; ")
			}
			if err := s.StatusRepo.UpsertStatus(ctx, tenantID, entityType, status, errMsg); err != nil {
				s.Logger.Warn("failed to update sync status", zap.String("tenant_id", tenantID), zap.Error(err))
			}
			if err := s.StatusRepo.AppendRun(ctx, &SyncRun{
				TenantID:         tenantID,
				EntityType:       entityType,
				Status:           status,
				RecordsProcessed: result.RecordsProcessed,
				Errors:           result.Errors,
				StartTime:        start,
				EndTime:          time.Now(),
			}); err != nil {
				s.Logger.Warn("failed to append sync run", zap.String("tenant_id", tenantID), zap.Error(err))
			}

			s.Events.Publish(SyncEvent{TenantID: tenantID, Result: result})
			results = append(results, result)
		}
	}

	return results
}

func (s *SyncServiceImpl) syncDataType(ctx context.Context, tenantID string, src integration.ResolvedSource, dataType string) SyncResult {
	source := src.Credentials.Source
	entityType := source + "_" + dataType

	raws, err := s.Connector.FetchAll(ctx, src.Credentials, dataType)
	if err != nil {
		s.Logger.Error("fetch failed",
			zap.String("tenant_id", tenantID),
			zap.String("source", source),
			zap.String("data_type", dataType),
			zap.Error(err))
		return SyncResult{
			Success:  false,
			DataType: entityType,
			Errors:   []string{err.Error()},
			SyncedAt: time.Now(),
		}
	}

	var records []ExternalRecord
	var errs []string
	for i, raw := range raws {
		record, err := s.Normalizer.Normalize(tenantID, source, dataType, src.TransformScript, raw, i)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		records = append(records, record)
	}

	persisted, err := s.Persister.Persist(ctx, records)
	if err != nil {
		s.Logger.Error("persist failed",
			zap.String("tenant_id", tenantID),
			zap.String("source", source),
			zap.String("data_type", dataType),
			zap.Int("persisted", persisted),
			zap.Error(err))
		errs = append(errs, err.Error())
		return SyncResult{
			Success:          false,
			DataType:         entityType,
			RecordsProcessed: persisted,
			Errors:           errs,
			SyncedAt:         time.Now(),
		}
	}

	// Individual bad records don't fail the data type unless nothing at all
	// made it through.
	success := len(errs) == 0 || persisted > 0
	if len(raws) > 0 && persisted == 0 && len(errs) > 0 {
		success = false
	}

	return SyncResult{
		Success:          success,
		DataType:         entityType,
		RecordsProcessed: persisted,
		Errors:           errs,
		SyncedAt:         time.Now(),
	}
}

func (s *SyncServiceImpl) GetStatistics(ctx context.Context) ([]StatisticsRow, error) {
	statuses, err := s.StatusRepo.ListStatuses(ctx, "")
	if err != nil {
		return nil, err
	}

	counts, err := s.Store.CountByDataType(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]StatisticsRow, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, StatisticsRow{
			TenantID:    status.TenantID,
			EntityType:  status.EntityType,
			Status:      status.Status,
			Error:       status.Error,
			LastSyncAt:  status.LastSyncAt,
			RecordCount: counts[status.TenantID][status.EntityType],
		})
	}
	return rows, nil
}

func (s *SyncServiceImpl) ExportStatistics(ctx context.Context) ([]byte, string, error) {
	rows, err := s.GetStatistics(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sync Statistics"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	columns := []string{"Tenant", "Entity Type", "Status", "Error", "Last Sync At", "Records"}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.TenantID,
			row.EntityType,
			string(row.Status),
			row.Error,
			row.LastSyncAt.Format("2006-01-02 15:04:05"),
			row.RecordCount,
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("sync_statistics_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func (s *SyncServiceImpl) ListRuns(ctx context.Context, tenantID string, limit int64) ([]SyncRun, error) {
	return s.StatusRepo.ListRuns(ctx, tenantID, limit)
}

func (s *SyncServiceImpl) TenantCount(ctx context.Context) int {
	tenants, err := s.TenantRepo.ListActive(ctx)
	if err != nil {
		return 0
	}
	return len(tenants)
}
