package integration

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

type fakeIntegrationRepo struct {
	integrations map[string]*Integration // keyed by tenantID + "/" + source
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{integrations: map[string]*Integration{}}
}

func (r *fakeIntegrationRepo) Create(ctx context.Context, integration *Integration) error {
	r.integrations[integration.TenantID+"/"+integration.Source] = integration
	return nil
}

func (r *fakeIntegrationRepo) Get(ctx context.Context, id string) (*Integration, error) {
	return nil, nil
}

func (r *fakeIntegrationRepo) GetByTenantAndSource(ctx context.Context, tenantID, source string) (*Integration, error) {
	return r.integrations[tenantID+"/"+source], nil
}

func (r *fakeIntegrationRepo) List(ctx context.Context, tenantID string) ([]Integration, error) {
	return nil, nil
}

func (r *fakeIntegrationRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return nil
}

func (r *fakeIntegrationRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func TestResolveUsesConnectedIntegration(t *testing.T) {
	repo := newFakeIntegrationRepo()
	repo.integrations["acme/wbuy"] = &Integration{
		TenantID: "acme",
		Source:   "wbuy",
		Status:   StatusConnected,
		Credentials: map[string]string{
			"api_url":   "https://store.example.com/api/v1",
			"api_token": "real-token",
			"store_id":  "store-42",
		},
		DataTypes:       []string{"produtos"},
		TransformScript: `record.kind = "produto"`,
	}

	service := NewIntegrationService(repo, zap.NewNop())
	resolved, err := service.Resolve(context.Background(), "acme", "wbuy")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolved.UsingDefaults {
		t.Error("UsingDefaults = true, want false")
	}
	if resolved.Credentials.BaseURL != "https://store.example.com/api/v1" {
		t.Errorf("BaseURL = %q", resolved.Credentials.BaseURL)
	}
	if resolved.Credentials.Token != "real-token" {
		t.Errorf("Token = %q, want real-token", resolved.Credentials.Token)
	}
	if got := resolved.Credentials.Headers["X-Store-ID"]; got != "store-42" {
		t.Errorf("X-Store-ID header = %q, want store-42", got)
	}
	if len(resolved.DataTypes) != 1 || resolved.DataTypes[0] != "produtos" {
		t.Errorf("DataTypes = %v, want [produtos]", resolved.DataTypes)
	}
	if resolved.TransformScript == "" {
		t.Error("TransformScript lost during resolve")
	}
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(repo *fakeIntegrationRepo)
	}{
		{
			name:  "no integration at all",
			setup: func(repo *fakeIntegrationRepo) {},
		},
		{
			name: "integration not connected",
			setup: func(repo *fakeIntegrationRepo) {
				repo.integrations["acme/wbuy"] = &Integration{
					TenantID: "acme",
					Source:   "wbuy",
					Status:   StatusPending,
					Credentials: map[string]string{
						"api_url":   "https://store.example.com/api/v1",
						"api_token": "real-token",
						"store_id":  "store-42",
					},
				}
			},
		},
		{
			name: "connected but missing required field",
			setup: func(repo *fakeIntegrationRepo) {
				repo.integrations["acme/wbuy"] = &Integration{
					TenantID: "acme",
					Source:   "wbuy",
					Status:   StatusConnected,
					Credentials: map[string]string{
						"api_url": "https://store.example.com/api/v1",
						// api_token and store_id missing
					},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeIntegrationRepo()
			tt.setup(repo)

			service := NewIntegrationService(repo, zap.NewNop())
			resolved, err := service.Resolve(context.Background(), "acme", "wbuy")
			if err != nil {
				t.Fatalf("Resolve() error = %v, fallback must never fail", err)
			}

			if !resolved.UsingDefaults {
				t.Error("UsingDefaults = false, want true")
			}
			if resolved.Credentials.Token != defaultCredentials["wbuy"]["api_token"] {
				t.Errorf("Token = %q, want sandbox default", resolved.Credentials.Token)
			}
			if len(resolved.DataTypes) == 0 {
				t.Error("DataTypes empty, want source defaults")
			}
		})
	}
}

func TestResolveUnknownSource(t *testing.T) {
	service := NewIntegrationService(newFakeIntegrationRepo(), zap.NewNop())
	if _, err := service.Resolve(context.Background(), "acme", "does-not-exist"); err == nil {
		t.Fatal("Resolve() error = nil, want unknown source error")
	}
}

func TestResolveSourcesCoversWholeCatalog(t *testing.T) {
	service := NewIntegrationService(newFakeIntegrationRepo(), zap.NewNop())
	resolved, err := service.ResolveSources(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ResolveSources() error = %v", err)
	}
	if len(resolved) != len(Sources) {
		t.Fatalf("len(resolved) = %d, want %d", len(resolved), len(Sources))
	}
	for i, src := range resolved {
		if src.Credentials.Source != Sources[i].Name {
			t.Errorf("resolved[%d].Source = %q, want %q", i, src.Credentials.Source, Sources[i].Name)
		}
	}
}

func TestCreateIntegrationRejectsDuplicates(t *testing.T) {
	repo := newFakeIntegrationRepo()
	service := NewIntegrationService(repo, zap.NewNop())

	first := &Integration{TenantID: "acme", Source: "tiny"}
	if err := service.CreateIntegration(context.Background(), first); err != nil {
		t.Fatalf("CreateIntegration() error = %v", err)
	}
	if first.Status != StatusPending {
		t.Errorf("Status = %q, want pending default", first.Status)
	}

	dup := &Integration{TenantID: "acme", Source: "tiny"}
	if err := service.CreateIntegration(context.Background(), dup); err == nil {
		t.Fatal("CreateIntegration() accepted a duplicate")
	}
}
