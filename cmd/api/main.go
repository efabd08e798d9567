package main

import (
	"context"
	"fmt"
	common_api "go-synchub/internal/common/api"
	"go-synchub/internal/config"
	"go-synchub/internal/connectors"
	"go-synchub/internal/database"
	"go-synchub/internal/features/integration"
	"go-synchub/internal/features/sync"
	"go-synchub/internal/features/system"
	"go-synchub/internal/features/tenant"
	"go-synchub/internal/logger"
	"go-synchub/internal/middleware"
	"go-synchub/pkg/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeSchema makes sure the record store tables exist before the first
// sync cycle writes to them.
func InitializeSchema(lc fx.Lifecycle, recordDB *database.RecordDB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return recordDB.EnsureSchema(ctx)
		},
	})
}

// StartScheduler boots the sync scheduler with the configured interval and
// stops it on shutdown.
func StartScheduler(lc fx.Lifecycle, scheduler *sync.Scheduler, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start(cfg.SyncIntervalMinutes)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Databases
			database.NewDatabase,
			database.NewRecordDB,

			// Initialize Repository
			tenant.NewTenantRepository,
			integration.NewIntegrationRepository,
			sync.NewStatusRepository,
			sync.NewPostgresRecordStore,

			// Initialize Services
			tenant.NewTenantService,
			integration.NewIntegrationService,
			sync.NewPersister,
			sync.NewEventBus,
			sync.NewSyncService,
			sync.NewScheduler,

			// Source connector
			func(cfg *config.Config, logger *zap.Logger) *connectors.RESTConnector {
				return connectors.NewRESTConnector(logger, cfg.FetchPageLimit, cfg.FetchMaxRetries)
			},
			func(c *connectors.RESTConnector) connectors.SourceConnector { return c },

			// Initialize Controller
			tenant.NewTenantController,
			integration.NewIntegrationController,
			sync.NewSyncController,

			// Initialize API Routes
			AsRoute(tenant.NewTenantApi),
			AsRoute(integration.NewIntegrationApi),
			AsRoute(sync.NewSyncApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeSchema,
			StartScheduler,
		),
	)

	app.Run()
}
