package main

import (
	"context"

	"go-synchub/internal/config"
	"go-synchub/internal/database"
	"go-synchub/internal/features/integration"
	"go-synchub/internal/features/tenant"
	"go-synchub/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed loads a set of demo tenants and integrations so a fresh install has
// something to sync. Existing documents are left untouched.
func Seed(
	lc fx.Lifecycle,
	tenantRepo tenant.TenantRepository,
	integrationRepo integration.IntegrationRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("🌱 Starting Database Seeding...")

				tenants := []tenant.Tenant{
					{Slug: "acme", Name: "Acme Store", Active: true},
					{Slug: "globex", Name: "Globex Commerce", Active: true},
					{Slug: "initech", Name: "Initech (inactive)", Active: false},
				}

				for i := range tenants {
					existing, err := tenantRepo.GetBySlug(context.Background(), tenants[i].Slug)
					if err == nil && existing != nil {
						logger.Info("Tenant exists, skipping", zap.String("slug", tenants[i].Slug))
						continue
					}
					if err := tenantRepo.Create(context.Background(), &tenants[i]); err != nil {
						logger.Error("Failed to seed tenant", zap.String("slug", tenants[i].Slug), zap.Error(err))
						continue
					}
					logger.Info("Seeded tenant", zap.String("slug", tenants[i].Slug))
				}

				integrations := []integration.Integration{
					{
						TenantID: "acme",
						Source:   "wbuy",
						Status:   integration.StatusConnected,
						Credentials: map[string]string{
							"api_url":   "https://sistema.sistemawbuy.com.br/api/v1",
							"api_token": "acme-wbuy-token",
							"store_id":  "acme-store",
						},
					},
					{
						TenantID: "acme",
						Source:   "activecampaign",
						Status:   integration.StatusConnected,
						Credentials: map[string]string{
							"api_url": "https://acme.api-us1.com/api/3",
							"api_key": "acme-ac-token",
						},
						DataTypes: []string{"contacts", "deals"},
					},
					{
						// Pending on purpose: the resolver should fall back to
						// the sandbox credentials for this one.
						TenantID: "globex",
						Source:   "wbuy",
						Status:   integration.StatusPending,
						Credentials: map[string]string{
							"api_url": "https://sistema.sistemawbuy.com.br/api/v1",
						},
					},
				}

				for i := range integrations {
					existing, err := integrationRepo.GetByTenantAndSource(
						context.Background(), integrations[i].TenantID, integrations[i].Source)
					if err == nil && existing != nil {
						logger.Info("Integration exists, skipping",
							zap.String("tenant_id", integrations[i].TenantID),
							zap.String("source", integrations[i].Source))
						continue
					}
					if err := integrationRepo.Create(context.Background(), &integrations[i]); err != nil {
						logger.Error("Failed to seed integration",
							zap.String("tenant_id", integrations[i].TenantID),
							zap.String("source", integrations[i].Source),
							zap.Error(err))
						continue
					}
					logger.Info("Seeded integration",
						zap.String("tenant_id", integrations[i].TenantID),
						zap.String("source", integrations[i].Source))
				}

				logger.Info("✅ Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			tenant.NewTenantRepository,
			integration.NewIntegrationRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
