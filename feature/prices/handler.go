package prices

import (
	"price-tracker/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for current product prices.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the prices routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Get("/", h.HandleListAll)
	group.Get("/:source", h.HandleListSource)
}

// HandleListAll lists the current snapshot across all sources.
// @Summary Current products (all sources)
// @Description Returns every current ledger row with effective price and price-per-unit metrics.
// @Tags prices
// @Produce json
// @Success 200 {array} prices.ProductView
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products [get]
func (h *Handler) HandleListAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	views, err := h.service.CurrentAll(c.Context())
	if err != nil {
		l.Error("Current snapshot query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(views)
}

// HandleListSource lists the current snapshot of one source.
// @Summary Current products for one source
// @Description Returns the current ledger rows of a single data source.
// @Tags prices
// @Produce json
// @Param source path string true "Data source name"
// @Success 200 {array} prices.ProductView
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/{source} [get]
func (h *Handler) HandleListSource(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	source := c.Params("source")

	views, err := h.service.Current(c.Context(), source)
	if err != nil {
		l.Error("Current snapshot query failed", zap.String("source", source), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(views)
}
