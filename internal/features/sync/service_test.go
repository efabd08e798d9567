package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-synchub/internal/config"
	"go-synchub/internal/connectors"
	"go-synchub/internal/features/integration"
	"go-synchub/internal/features/tenant"

	"go.uber.org/zap"
)

type fakeTenantRepo struct {
	active []tenant.Tenant
}

func (r *fakeTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error { return nil }
func (r *fakeTenantRepo) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	return nil, errors.New("not found")
}
func (r *fakeTenantRepo) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return nil, errors.New("not found")
}
func (r *fakeTenantRepo) List(ctx context.Context) ([]tenant.Tenant, error) { return r.active, nil }
func (r *fakeTenantRepo) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	return r.active, nil
}
func (r *fakeTenantRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return nil
}
func (r *fakeTenantRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeIntegrationService struct {
	resolved []integration.ResolvedSource
}

func (s *fakeIntegrationService) CreateIntegration(ctx context.Context, i *integration.Integration) error {
	return nil
}
func (s *fakeIntegrationService) GetIntegration(ctx context.Context, id string) (*integration.Integration, error) {
	return nil, nil
}
func (s *fakeIntegrationService) ListIntegrations(ctx context.Context, tenantID string) ([]integration.Integration, error) {
	return nil, nil
}
func (s *fakeIntegrationService) UpdateIntegration(ctx context.Context, id string, updates map[string]interface{}) error {
	return nil
}
func (s *fakeIntegrationService) DeleteIntegration(ctx context.Context, id string) error {
	return nil
}
func (s *fakeIntegrationService) Resolve(ctx context.Context, tenantID, source string) (integration.ResolvedSource, error) {
	return integration.ResolvedSource{}, nil
}
func (s *fakeIntegrationService) ResolveSources(ctx context.Context, tenantID string) ([]integration.ResolvedSource, error) {
	return s.resolved, nil
}

// fakeConnector serves canned pages per "source/dataType".
type fakeConnector struct {
	records map[string][]connectors.RawRecord
	errs    map[string]error
}

func (c *fakeConnector) FetchAll(ctx context.Context, creds connectors.Credentials, dataType string) ([]connectors.RawRecord, error) {
	key := creds.Source + "/" + dataType
	if err := c.errs[key]; err != nil {
		return nil, err
	}
	return c.records[key], nil
}

type statusWrite struct {
	entityType string
	status     SyncStatus
	errMsg     string
}

type fakeStatusRepo struct {
	writes []statusWrite
	runs   []SyncRun
}

func (r *fakeStatusRepo) UpsertStatus(ctx context.Context, tenantID, entityType string, status SyncStatus, errMsg string) error {
	r.writes = append(r.writes, statusWrite{entityType: entityType, status: status, errMsg: errMsg})
	return nil
}
func (r *fakeStatusRepo) ListStatuses(ctx context.Context, tenantID string) ([]SyncStatusRecord, error) {
	return nil, nil
}
func (r *fakeStatusRepo) AppendRun(ctx context.Context, run *SyncRun) error {
	r.runs = append(r.runs, *run)
	return nil
}
func (r *fakeStatusRepo) ListRuns(ctx context.Context, tenantID string, limit int64) ([]SyncRun, error) {
	return r.runs, nil
}

func (r *fakeStatusRepo) terminalStatus(entityType string) (SyncStatus, string) {
	for i := len(r.writes) - 1; i >= 0; i-- {
		if r.writes[i].entityType == entityType && r.writes[i].status != StatusSyncing {
			return r.writes[i].status, r.writes[i].errMsg
		}
	}
	return "", ""
}

func newTestService(connector connectors.SourceConnector, resolved []integration.ResolvedSource, store RecordStore, statusRepo StatusRepository) SyncService {
	cfg := &config.Config{SyncBatchSize: 100, BatchDelayMs: 0, PersistMaxRetries: 1, TenantDelaySeconds: 0}
	return NewSyncService(
		&fakeTenantRepo{active: []tenant.Tenant{{Slug: "acme", Active: true}}},
		&fakeIntegrationService{resolved: resolved},
		connector,
		NewPersister(store, cfg, zap.NewNop()),
		store,
		statusRepo,
		NewEventBus(),
		cfg,
		zap.NewNop(),
	)
}

func TestSyncTenantIsolatesDataTypeFailures(t *testing.T) {
	resolved := []integration.ResolvedSource{
		{
			Credentials: connectors.Credentials{Source: "wbuy"},
			DataTypes:   []string{"produtos", "pedidos"},
		},
		{
			Credentials: connectors.Credentials{Source: "tiny"},
			DataTypes:   []string{"clientes"},
		},
	}
	connector := &fakeConnector{
		records: map[string][]connectors.RawRecord{
			"wbuy/produtos": {{"id": "p1"}, {"id": "p2"}},
			"tiny/clientes": {{"id": "c1"}},
		},
		errs: map[string]error{
			"wbuy/pedidos": &connectors.APIError{Source: "wbuy", Status: 500, Body: "boom"},
		},
	}
	store := &fakeRecordStore{}
	statusRepo := &fakeStatusRepo{}

	service := newTestService(connector, resolved, store, statusRepo)
	results := service.SyncTenant(context.Background(), "acme")

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	byType := map[string]SyncResult{}
	for _, result := range results {
		byType[result.DataType] = result
	}

	produtos := byType["wbuy_produtos"]
	if !produtos.Success || produtos.RecordsProcessed != 2 {
		t.Errorf("wbuy_produtos = %+v, want success with 2 records", produtos)
	}

	pedidos := byType["wbuy_pedidos"]
	if pedidos.Success {
		t.Error("wbuy_pedidos succeeded despite fetch failure")
	}
	if len(pedidos.Errors) == 0 || !strings.Contains(pedidos.Errors[0], "wbuy API error") {
		t.Errorf("wbuy_pedidos errors = %v, want fetch error", pedidos.Errors)
	}

	// The failing sibling must not stop the remaining data types.
	clientes := byType["tiny_clientes"]
	if !clientes.Success || clientes.RecordsProcessed != 1 {
		t.Errorf("tiny_clientes = %+v, want success with 1 record", clientes)
	}
}

func TestSyncTenantWritesStatusTransitions(t *testing.T) {
	resolved := []integration.ResolvedSource{
		{Credentials: connectors.Credentials{Source: "wbuy"}, DataTypes: []string{"produtos"}},
		{Credentials: connectors.Credentials{Source: "wbuy"}, DataTypes: []string{"pedidos"}},
	}
	connector := &fakeConnector{
		records: map[string][]connectors.RawRecord{
			"wbuy/produtos": {{"id": "p1"}},
		},
		errs: map[string]error{
			"wbuy/pedidos": errors.New("connection refused"),
		},
	}
	statusRepo := &fakeStatusRepo{}

	service := newTestService(connector, resolved, &fakeRecordStore{}, statusRepo)
	service.SyncTenant(context.Background(), "acme")

	// Every data type gets a syncing marker before its terminal status.
	if statusRepo.writes[0].status != StatusSyncing {
		t.Errorf("first write = %v, want syncing", statusRepo.writes[0].status)
	}

	if status, _ := statusRepo.terminalStatus("wbuy_produtos"); status != StatusSuccess {
		t.Errorf("wbuy_produtos terminal status = %v, want success", status)
	}
	status, errMsg := statusRepo.terminalStatus("wbuy_pedidos")
	if status != StatusError {
		t.Errorf("wbuy_pedidos terminal status = %v, want error", status)
	}
	if !strings.Contains(errMsg, "connection refused") {
		t.Errorf("wbuy_pedidos error = %q, want fetch error message", errMsg)
	}

	if len(statusRepo.runs) != 2 {
		t.Errorf("runs appended = %d, want 2", len(statusRepo.runs))
	}
}

func TestSyncTenantCollectsRecordLevelErrors(t *testing.T) {
	resolved := []integration.ResolvedSource{
		{Credentials: connectors.Credentials{Source: "wbuy"}, DataTypes: []string{"produtos"}},
	}
	connector := &fakeConnector{
		records: map[string][]connectors.RawRecord{
			"wbuy/produtos": {{"id": "p1"}, {"name": "no id here"}, {"id": "p3"}},
		},
	}
	store := &fakeRecordStore{}

	service := newTestService(connector, resolved, store, &fakeStatusRepo{})
	results := service.SyncTenant(context.Background(), "acme")

	result := results[0]
	if !result.Success {
		t.Errorf("Success = false, want true when some records persist")
	}
	if result.RecordsProcessed != 2 {
		t.Errorf("RecordsProcessed = %d, want 2", result.RecordsProcessed)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "no id field") {
		t.Errorf("Errors = %v, want one missing-id error", result.Errors)
	}
}

func TestSyncTenantReportsPartialPersist(t *testing.T) {
	resolved := []integration.ResolvedSource{
		{Credentials: connectors.Credentials{Source: "wbuy"}, DataTypes: []string{"produtos"}},
	}
	records := make([]connectors.RawRecord, 0, 250)
	for i := 0; i < 250; i++ {
		records = append(records, connectors.RawRecord{"id": float64(i + 1)})
	}
	connector := &fakeConnector{
		records: map[string][]connectors.RawRecord{"wbuy/produtos": records},
	}
	store := &fakeRecordStore{failAt: 3}

	service := newTestService(connector, resolved, store, &fakeStatusRepo{})
	results := service.SyncTenant(context.Background(), "acme")

	result := results[0]
	if result.Success {
		t.Error("Success = true, want false on persist failure")
	}
	if result.RecordsProcessed != 200 {
		t.Errorf("RecordsProcessed = %d, want 200 committed before the failure", result.RecordsProcessed)
	}
}

func TestSyncAllPublishesEvents(t *testing.T) {
	resolved := []integration.ResolvedSource{
		{Credentials: connectors.Credentials{Source: "wbuy"}, DataTypes: []string{"produtos"}},
	}
	connector := &fakeConnector{
		records: map[string][]connectors.RawRecord{"wbuy/produtos": {{"id": "p1"}}},
	}

	cfg := &config.Config{SyncBatchSize: 100, TenantDelaySeconds: 0, PersistMaxRetries: 1}
	events := NewEventBus()
	sub := events.Subscribe()
	defer events.Unsubscribe(sub)

	store := &fakeRecordStore{}
	service := NewSyncService(
		&fakeTenantRepo{active: []tenant.Tenant{{Slug: "acme"}, {Slug: "globex"}}},
		&fakeIntegrationService{resolved: resolved},
		connector,
		NewPersister(store, cfg, zap.NewNop()),
		store,
		&fakeStatusRepo{},
		events,
		cfg,
		zap.NewNop(),
	)

	if err := service.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	// One event per (tenant, data type).
	for i := 0; i < 2; i++ {
		select {
		case event := <-sub:
			if event.Result.DataType != "wbuy_produtos" {
				t.Errorf("event data type = %q", event.Result.DataType)
			}
		default:
			t.Fatalf("missing event %d", i)
		}
	}
}
