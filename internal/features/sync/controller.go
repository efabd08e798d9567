package sync

import (
	"strconv"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SyncController struct {
	Service   SyncService
	Scheduler *Scheduler
	Events    *EventBus
	Logger    *zap.Logger
}

func NewSyncController(service SyncService, scheduler *Scheduler, events *EventBus, logger *zap.Logger) *SyncController {
	return &SyncController{
		Service:   service,
		Scheduler: scheduler,
		Events:    events,
		Logger:    logger,
	}
}

// StartScheduler godoc
func (ctrl *SyncController) StartScheduler(c *fiber.Ctx) error {
	var body struct {
		IntervalMinutes int `json:"interval_minutes"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	if err := ctrl.Scheduler.Start(body.IntervalMinutes); err != nil {
		status := fiber.StatusInternalServerError
		if err == ErrSchedulerRunning {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sync scheduler started",
		"status":  ctrl.Scheduler.GetStatus(c.Context()),
	})
}

// StopScheduler godoc
func (ctrl *SyncController) StopScheduler(c *fiber.Ctx) error {
	if err := ctrl.Scheduler.Stop(); err != nil {
		status := fiber.StatusInternalServerError
		if err == ErrSchedulerStopped {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sync scheduler stopped",
	})
}

// GetSchedulerStatus godoc
func (ctrl *SyncController) GetSchedulerStatus(c *fiber.Ctx) error {
	return c.JSON(ctrl.Scheduler.GetStatus(c.Context()))
}

// RunTenantSync triggers a one-off sync for a single tenant, outside the
// scheduled cycle.
func (ctrl *SyncController) RunTenantSync(c *fiber.Ctx) error {
	tenantID := c.Params("tenantId")
	if tenantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tenantId is required",
		})
	}

	results := ctrl.Service.SyncTenant(c.Context(), tenantID)

	return c.JSON(fiber.Map{
		"message": "Tenant sync finished",
		"data":    results,
	})
}

// GetStatistics godoc
func (ctrl *SyncController) GetStatistics(c *fiber.Ctx) error {
	rows, err := ctrl.Service.GetStatistics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": rows,
	})
}

// ExportStatistics godoc
func (ctrl *SyncController) ExportStatistics(c *fiber.Ctx) error {
	content, filename, err := ctrl.Service.ExportStatistics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(content)
}

// ListRuns godoc
func (ctrl *SyncController) ListRuns(c *fiber.Ctx) error {
	tenantID := c.Query("tenant_id")
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	runs, err := ctrl.Service.ListRuns(c.Context(), tenantID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": runs,
	})
}

// StreamEvents pushes sync results to the client as each data type finishes.
func (ctrl *SyncController) StreamEvents() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		events := ctrl.Events.Subscribe()
		defer ctrl.Events.Unsubscribe(events)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					ctrl.Logger.Debug("websocket write failed", zap.Error(err))
					return
				}
			case <-done:
				return
			}
		}
	})
}
