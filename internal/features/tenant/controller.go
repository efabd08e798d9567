package tenant

import (
	"github.com/gofiber/fiber/v2"
)

type TenantController struct {
	Service TenantService
}

func NewTenantController(service TenantService) *TenantController {
	return &TenantController{Service: service}
}

// CreateTenant godoc
func (ctrl *TenantController) CreateTenant(c *fiber.Ctx) error {
	var tenant Tenant
	if err := c.BodyParser(&tenant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreateTenant(c.Context(), &tenant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tenant created successfully",
		"data":    tenant,
	})
}

// ListTenants godoc
func (ctrl *TenantController) ListTenants(c *fiber.Ctx) error {
	tenants, err := ctrl.Service.ListTenants(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": tenants,
	})
}

// GetTenant godoc
func (ctrl *TenantController) GetTenant(c *fiber.Ctx) error {
	id := c.Params("id")

	tenant, err := ctrl.Service.GetTenant(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(tenant)
}

// UpdateTenant godoc
func (ctrl *TenantController) UpdateTenant(c *fiber.Ctx) error {
	id := c.Params("id")

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateTenant(c.Context(), id, updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tenant updated successfully",
	})
}

// DeleteTenant godoc
func (ctrl *TenantController) DeleteTenant(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := ctrl.Service.DeleteTenant(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tenant deleted successfully",
	})
}
