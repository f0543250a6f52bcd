package universities

import (
	"errors"
	"time"

	"unilist/core/logger"
	"unilist/core/validation"
	"unilist/feature/universities/listsync"
	"unilist/feature/universities/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for browsing sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ScrollRequest is the body of the scroll endpoint.
type ScrollRequest struct {
	Offset        float64 `json:"offset" validate:"gte=0"`
	VisibleHeight float64 `json:"visible_height" validate:"gte=0"`
	ContentHeight float64 `json:"content_height" validate:"gte=0"`
}

// SessionResponse describes an opened session.
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sessions")
	group.Post("/", h.HandleOpen)
	group.Delete("/:id", h.HandleClose)
	group.Get("/:id/events", h.HandleEvents)

	home := group.Group("/:id/home")
	home.Get("/", h.HandleHome)
	home.Post("/next", h.homeOp(func(l *listsync.Home) { l.FetchNextPage() }))
	home.Post("/retry", h.homeOp(func(l *listsync.Home) { l.Retry() }))
	home.Post("/refresh", h.homeOp(func(l *listsync.Home) { l.Refresh() }))
	home.Post("/collapse", h.homeOp(func(l *listsync.Home) { l.CollapseAll() }))
	home.Post("/scroll", h.HandleScroll)
	home.Post("/provinces/:section/toggle", h.HandleToggleProvince)
	home.Post("/provinces/:section/universities/:row/toggle", h.HandleToggleUniversity)
	home.Post("/provinces/:section/universities/:row/favorite", h.HandleToggleFavorite)
	home.Get("/provinces/:section/universities/:row/details", h.HandleDetails)

	favs := group.Group("/:id/favorites")
	favs.Get("/", h.HandleFavorites)
	favs.Post("/load", h.favoritesOp(func(l *listsync.Favorites) { l.Load() }))
	favs.Post("/collapse", h.favoritesOp(func(l *listsync.Favorites) { l.CollapseAll() }))
	favs.Post("/:row/toggle", h.HandleToggleFavoriteRow)
	favs.Delete("/:row", h.HandleRemoveFavorite)
}

// HandleOpen opens a browsing session.
// @Summary Open Session
// @Description Opens a session holding a home list and a favorites list. The first page is requested immediately.
// @Tags sessions
// @Produce json
// @Success 201 {object} SessionResponse "Session"
// @Failure 503 {object} map[string]string "Session limit reached"
// @Router /sessions [post]
func (h *Handler) HandleOpen(c *fiber.Ctx) error {
	s, err := h.service.Open()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Failed to open session", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{ID: s.ID, CreatedAt: s.CreatedAt})
}

// HandleClose closes a session.
// @Summary Close Session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204 "Closed"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id} [delete]
func (h *Handler) HandleClose(c *fiber.Ctx) error {
	if err := h.service.Close(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleEvents drains pending view events.
// @Summary Drain Events
// @Description Returns and clears the events emitted since the last call. With wait, blocks until an event arrives or the wait (milliseconds, capped by the server) elapses.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param wait query int false "Long-poll milliseconds"
// @Success 200 {object} map[string]interface{} "Events"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/events [get]
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	wait := c.QueryInt("wait", 0)
	if wait < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wait must not be negative"})
	}
	events, err := h.service.Events(c.Context(), c.Params("id"), time.Duration(wait)*time.Millisecond)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

// HandleHome returns the home list.
// @Summary Home Snapshot
// @Tags home
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} listsync.HomeState "Home list"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/home [get]
func (h *Handler) HandleHome(c *fiber.Ctx) error {
	return h.runHome(c, nil)
}

// HandleScroll reports the scroll position of the home list.
// @Summary Report Scroll
// @Description Requests the next page when the scrolled fraction crosses the configured threshold.
// @Tags home
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body ScrollRequest true "Scroll geometry"
// @Success 200 {object} listsync.HomeState "Home list"
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/home/scroll [post]
func (h *Handler) HandleScroll(c *fiber.Ctx) error {
	var req ScrollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Summary(err)})
	}
	return h.runHome(c, func(l *listsync.Home) {
		l.OnScroll(req.Offset, req.VisibleHeight, req.ContentHeight)
	})
}

// HandleToggleProvince expands or collapses a province.
// @Summary Toggle Province
// @Tags home
// @Produce json
// @Param id path string true "Session ID"
// @Param section path int true "Province position"
// @Success 200 {object} listsync.HomeState "Home list"
// @Failure 400 {object} map[string]string "Invalid section"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/home/provinces/{section}/toggle [post]
func (h *Handler) HandleToggleProvince(c *fiber.Ctx) error {
	section, err := c.ParamsInt("section")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid section"})
	}
	return h.runHome(c, func(l *listsync.Home) { l.ToggleProvince(section) })
}

// HandleToggleUniversity expands or collapses a university.
// @Summary Toggle University
// @Tags home
// @Produce json
// @Param id path string true "Session ID"
// @Param section path int true "Province position"
// @Param row path int true "University position"
// @Success 200 {object} listsync.HomeState "Home list"
// @Failure 400 {object} map[string]string "Invalid path"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/home/provinces/{section}/universities/{row}/toggle [post]
func (h *Handler) HandleToggleUniversity(c *fiber.Ctx) error {
	path, ok := parsePath(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid path"})
	}
	return h.runHome(c, func(l *listsync.Home) { l.ToggleUniversity(path) })
}

// HandleToggleFavorite flips the favorite flag of a university.
// @Summary Toggle Favorite
// @Description Flips the favorite flag and writes it through to the favorites store.
// @Tags home
// @Produce json
// @Param id path string true "Session ID"
// @Param section path int true "Province position"
// @Param row path int true "University position"
// @Success 200 {object} listsync.HomeState "Home list"
// @Failure 400 {object} map[string]string "Invalid path"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/home/provinces/{section}/universities/{row}/favorite [post]
func (h *Handler) HandleToggleFavorite(c *fiber.Ctx) error {
	path, ok := parsePath(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid path"})
	}
	return h.runHome(c, func(l *listsync.Home) { l.ToggleFavorite(path) })
}

// HandleDetails returns the contact details of a university.
// @Summary University Details
// @Tags home
// @Produce json
// @Param id path string true "Session ID"
// @Param section path int true "Province position"
// @Param row path int true "University position"
// @Success 200 {array} models.Detail "Details"
// @Failure 404 {object} map[string]string "Unknown session or university"
// @Router /sessions/{id}/home/provinces/{section}/universities/{row}/details [get]
func (h *Handler) HandleDetails(c *fiber.Ctx) error {
	path, ok := parsePath(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid path"})
	}
	state, err := h.service.Home(c.Context(), c.Params("id"), nil)
	if err != nil {
		return h.fail(c, err)
	}
	details, ok := listsync.DetailsAt(state, path)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "university not found"})
	}
	return c.JSON(details)
}

// HandleFavorites returns the favorites list of a session.
// @Summary Favorites Snapshot
// @Tags favorites
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} listsync.FavoritesState "Favorites list"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/favorites [get]
func (h *Handler) HandleFavorites(c *fiber.Ctx) error {
	return h.runFavorites(c, nil)
}

// HandleToggleFavoriteRow expands or collapses a favorite.
// @Summary Toggle Favorite Row
// @Tags favorites
// @Produce json
// @Param id path string true "Session ID"
// @Param row path int true "Row"
// @Success 200 {object} listsync.FavoritesState "Favorites list"
// @Failure 400 {object} map[string]string "Invalid row"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/favorites/{row}/toggle [post]
func (h *Handler) HandleToggleFavoriteRow(c *fiber.Ctx) error {
	row, err := c.ParamsInt("row")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid row"})
	}
	return h.runFavorites(c, func(l *listsync.Favorites) { l.ToggleUniversity(row) })
}

// HandleRemoveFavorite removes a favorite from the store and the list.
// @Summary Remove Favorite Row
// @Tags favorites
// @Produce json
// @Param id path string true "Session ID"
// @Param row path int true "Row"
// @Success 200 {object} listsync.FavoritesState "Favorites list"
// @Failure 400 {object} map[string]string "Invalid row"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /sessions/{id}/favorites/{row} [delete]
func (h *Handler) HandleRemoveFavorite(c *fiber.Ctx) error {
	row, err := c.ParamsInt("row")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid row"})
	}
	return h.runFavorites(c, func(l *listsync.Favorites) { l.RemoveFavorite(row) })
}

func (h *Handler) homeOp(op func(*listsync.Home)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.runHome(c, op)
	}
}

func (h *Handler) favoritesOp(op func(*listsync.Favorites)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.runFavorites(c, op)
	}
}

func (h *Handler) runHome(c *fiber.Ctx, op func(*listsync.Home)) error {
	state, err := h.service.Home(c.Context(), c.Params("id"), op)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) runFavorites(c *fiber.Ctx, op func(*listsync.Favorites)) error {
	state, err := h.service.Favorites(c.Context(), c.Params("id"), op)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Session operation failed",
		zap.String("session", c.Params("id")), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func parsePath(c *fiber.Ctx) (models.Path, bool) {
	section, err := c.ParamsInt("section")
	if err != nil {
		return models.Path{}, false
	}
	row, err := c.ParamsInt("row")
	if err != nil {
		return models.Path{}, false
	}
	return models.Path{Section: section, Row: row}, true
}
