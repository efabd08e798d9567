package tenant

import (
	"go-synchub/internal/common/api"
	"go-synchub/internal/config"
	"go-synchub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TenantApi struct {
	controller *TenantController
	config     *config.Config
}

func NewTenantApi(controller *TenantController, config *config.Config) api.Route {
	return &TenantApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all tenant routes
func (h *TenantApi) Setup(app *fiber.App) {
	tenantGroup := app.Group("/api/tenants", middleware.AuthMiddleware(h.config.SkipAuth))

	tenantGroup.Post("/", h.controller.CreateTenant)
	tenantGroup.Get("/", h.controller.ListTenants)
	tenantGroup.Get("/:id", h.controller.GetTenant)
	tenantGroup.Put("/:id", h.controller.UpdateTenant)
	tenantGroup.Delete("/:id", h.controller.DeleteTenant)
}
