package history

import (
	"errors"

	"price-tracker/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for compacted price history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/products/:source/:key/history", h.HandleHistory)
}

// HandleHistory returns the compacted price history of one product.
// @Summary Price history for one product
// @Description Returns ordered price intervals; consecutive versions with the same effective price are collapsed.
// @Tags history
// @Produce json
// @Param source path string true "Data source name"
// @Param key path string true "Natural key of the product within the source"
// @Success 200 {array} compact.PriceInterval
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/{source}/{key}/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	source := c.Params("source")
	key := c.Params("key")

	intervals, err := h.service.Intervals(c.Context(), source, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		l.Error("History query failed",
			zap.String("source", source),
			zap.String("key", key),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(intervals)
}
