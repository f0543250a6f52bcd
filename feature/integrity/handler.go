package integrity

import (
	"unilist/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/source", h.HandleSourceCheck)
	group.Get("/pages", h.HandlePagesCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/cache", h.HandleCacheCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the page source, the mirrored pages, the favorites schema and Redis.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	report["source"] = h.service.CheckSource(ctx)

	if pages, err := h.service.CheckPages(ctx); err != nil {
		report["pages"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["pages"] = pages
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	report["cache"] = h.service.CheckCache(ctx)

	return c.JSON(report)
}

// HandleSourceCheck fetches the first page.
// @Summary Check Page Source
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SourceReport "Source Report"
// @Router /integrity/source [get]
func (h *Handler) HandleSourceCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckSource(c.Context()))
}

// HandlePagesCheck checks the mirrored pages and optionally creates the bucket.
// @Summary Check Mirrored Pages
// @Description Verifies that every page announced by the source exists in the storage bucket. With fix, creates a missing bucket first.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket if missing"
// @Success 200 {object} checks.PagesReport "Pages Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/pages [get]
func (h *Handler) HandlePagesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.Query("fix") == "true" {
		l.Info("Ensuring page bucket exists")
		if err := h.service.FixBucket(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
	}

	report, err := h.service.CheckPages(c.Context())
	if err != nil {
		l.Error("Pages check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.Missing) > 0 {
		l.Warn("Missing pages detected", zap.Strings("missing", report.Missing))
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the favorites table.
// @Summary Check Favorites Schema
// @Description Compares the favorites table with its model. With fix, migrates the table first.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Migrate the table"
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.Query("fix") == "true" {
		l.Info("Migrating favorites table")
		if err := h.service.FixSchema(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to migrate schema",
				"details": err.Error(),
			})
		}
	}

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleCacheCheck pings Redis.
// @Summary Check Redis
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.CacheReport "Cache Report"
// @Router /integrity/cache [get]
func (h *Handler) HandleCacheCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckCache(c.Context()))
}
