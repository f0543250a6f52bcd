package favorites

import (
	"errors"
	"net/url"

	"unilist/core/logger"
	"unilist/core/validation"
	"unilist/feature/favorites/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the favorites store.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the favorites routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/favorites")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleAdd)
	group.Delete("/:name", h.HandleRemove)
}

// HandleList returns the stored favorites.
// @Summary List Favorites
// @Description Returns every favorite university in insertion order.
// @Tags favorites
// @Produce json
// @Success 200 {array} models.University "Favorites"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /favorites [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	list, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Failed to list favorites", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

// HandleAdd stores a favorite.
// @Summary Add Favorite
// @Description Stores a university as favorite. An existing favorite with the same name is overwritten.
// @Tags favorites
// @Accept json
// @Produce json
// @Param body body AddRequest true "University"
// @Success 201 {object} models.University "Stored favorite"
// @Failure 400 {object} map[string]interface{} "Invalid body"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /favorites [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req AddRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  validation.Summary(err),
			"fields": validation.FormatErrors(err),
		})
	}

	u, err := h.service.Add(c.Context(), req)
	if errors.Is(err, store.ErrInvalidName) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must not be blank"})
	}
	if err != nil {
		l.Error("Failed to add favorite", zap.String("university", req.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

// HandleRemove deletes a favorite by name.
// @Summary Remove Favorite
// @Description Removes the favorite university with the given name.
// @Tags favorites
// @Produce json
// @Param name path string true "University name"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Not a favorite"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /favorites/{name} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name"})
	}

	if err := h.service.Remove(c.Context(), name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to remove favorite", zap.String("university", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
