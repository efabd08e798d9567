package sync

import (
	"go-synchub/internal/common/api"
	"go-synchub/internal/config"
	"go-synchub/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all sync routes
func (h *SyncApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/start", h.controller.StartScheduler)
	group.Post("/stop", h.controller.StopScheduler)
	group.Get("/status", h.controller.GetSchedulerStatus)
	group.Post("/run/:tenantId", h.controller.RunTenantSync)
	group.Get("/statistics", h.controller.GetStatistics)
	group.Get("/statistics/export", h.controller.ExportStatistics)
	group.Get("/runs", h.controller.ListRuns)

	// Websocket feed skips the JWT middleware; browsers cannot set the
	// Authorization header on upgrade requests.
	app.Use("/api/sync/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/sync/ws", h.controller.StreamEvents())
}
