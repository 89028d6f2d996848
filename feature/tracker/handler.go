package tracker

import (
	"errors"

	"price-tracker/core/connector"
	"price-tracker/core/logger"
	"price-tracker/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for tracker admin operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the tracker routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tracker")
	group.Post("/run/:source", h.HandleRunCycle)
	group.Get("/status", h.HandleStatus)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/archives/:source", h.HandleArchives)
}

// HandleRunCycle triggers one reconcile cycle for a source.
// @Summary Run a reconcile cycle
// @Description Fetches the source and merges the snapshot into the ledger. Failures never mutate the ledger.
// @Tags tracker
// @Produce json
// @Param source path string true "Data source name"
// @Success 200 {object} reconcile.Result
// @Failure 409 {object} map[string]string "Another cycle holds the source lock, or the empty-snapshot guard fired"
// @Failure 502 {object} map[string]string "Source payload invalid or upstream unreachable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /tracker/run/{source} [post]
func (h *Handler) HandleRunCycle(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	source := c.Params("source")
	l.Info("Manual cycle triggered", zap.String("source", source))

	result, err := h.service.RunCycle(c.Context(), source)
	if err != nil {
		l.Error("Manual cycle failed", zap.String("source", source), zap.Error(err))

		var validation *connector.ValidationError
		var transient *connector.TransientError
		switch {
		case errors.Is(err, reconcile.ErrSourceBusy), errors.Is(err, reconcile.ErrEmptySnapshot):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &validation), errors.As(err, &transient):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(result)
}

// HandleStatus returns per-source cycle status.
// @Summary Tracker status
// @Description Returns state machine position and last cycle outcome per source.
// @Tags tracker
// @Produce json
// @Success 200 {array} orchestrator.SourceStatus
// @Router /tracker/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleSchemaCheck verifies the ledger table shape.
// @Summary Check ledger schema
// @Description Compares the ledger table columns against the expected shape.
// @Tags tracker
// @Produce json
// @Success 200 {object} map[string]interface{} "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /tracker/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.SchemaCheck()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	status := "ok"
	if len(missing) > 0 {
		status = "missing_columns"
	}
	return c.JSON(fiber.Map{
		"status":  status,
		"missing": missing,
	})
}

// HandleArchives lists archived raw payloads of a source.
// @Summary List payload archives
// @Description Lists the raw payload objects stored for a source.
// @Tags tracker
// @Produce json
// @Param source path string true "Data source name"
// @Success 200 {object} map[string]interface{} "Archive listing"
// @Failure 404 {object} map[string]string "Archiving disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /tracker/archives/{source} [get]
func (h *Handler) HandleArchives(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	source := c.Params("source")

	names, err := h.service.Archives(c.Context(), source)
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Archive listing failed", zap.String("source", source), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"source":   source,
		"archives": names,
	})
}
