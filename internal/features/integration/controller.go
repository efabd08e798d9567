package integration

import (
	"github.com/gofiber/fiber/v2"
)

type IntegrationController struct {
	Service IntegrationService
}

func NewIntegrationController(service IntegrationService) *IntegrationController {
	return &IntegrationController{Service: service}
}

// CreateIntegration godoc
func (ctrl *IntegrationController) CreateIntegration(c *fiber.Ctx) error {
	var integration Integration
	if err := c.BodyParser(&integration); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreateIntegration(c.Context(), &integration); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Integration created successfully",
		"data":    integration,
	})
}

// ListIntegrations godoc
func (ctrl *IntegrationController) ListIntegrations(c *fiber.Ctx) error {
	tenantID := c.Query("tenant_id")

	integrations, err := ctrl.Service.ListIntegrations(c.Context(), tenantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": integrations,
	})
}

// GetIntegration godoc
func (ctrl *IntegrationController) GetIntegration(c *fiber.Ctx) error {
	id := c.Params("id")

	integration, err := ctrl.Service.GetIntegration(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(integration)
}

// UpdateIntegration godoc
func (ctrl *IntegrationController) UpdateIntegration(c *fiber.Ctx) error {
	id := c.Params("id")

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateIntegration(c.Context(), id, updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Integration updated successfully",
	})
}

// DeleteIntegration godoc
func (ctrl *IntegrationController) DeleteIntegration(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := ctrl.Service.DeleteIntegration(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Integration deleted successfully",
	})
}

// ListSources godoc
func (ctrl *IntegrationController) ListSources(c *fiber.Ctx) error {
	type sourceInfo struct {
		Name             string   `json:"name"`
		RequiredFields   []string `json:"required_fields"`
		DefaultDataTypes []string `json:"default_data_types"`
	}

	infos := make([]sourceInfo, 0, len(Sources))
	for _, spec := range Sources {
		infos = append(infos, sourceInfo{
			Name:             spec.Name,
			RequiredFields:   spec.RequiredFields,
			DefaultDataTypes: spec.DefaultDataTypes,
		})
	}

	return c.JSON(fiber.Map{
		"data": infos,
	})
}
