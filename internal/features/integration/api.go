package integration

import (
	"go-synchub/internal/common/api"
	"go-synchub/internal/config"
	"go-synchub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type IntegrationApi struct {
	controller *IntegrationController
	config     *config.Config
}

func NewIntegrationApi(controller *IntegrationController, config *config.Config) api.Route {
	return &IntegrationApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all integration routes
func (h *IntegrationApi) Setup(app *fiber.App) {
	group := app.Group("/api/integrations", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/sources", h.controller.ListSources)
	group.Post("/", h.controller.CreateIntegration)
	group.Get("/", h.controller.ListIntegrations)
	group.Get("/:id", h.controller.GetIntegration)
	group.Put("/:id", h.controller.UpdateIntegration)
	group.Delete("/:id", h.controller.DeleteIntegration)
}
