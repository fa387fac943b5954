package integrity

import (
	"errors"

	"library-manager/core/logger"
	"library-manager/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/assets", h.HandleAssetsCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Runs the storage, schema and asset checks concurrently. A failing check is reported under errors.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.CheckAll(c.UserContext())
	if !report.Healthy {
		l.Warn("Integrity issues detected", zap.Int("failed_checks", len(report.Errors)))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks the bucket.
// @Summary Check Storage
// @Description Verifies the bucket exists and counts its objects by asset kind.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 404 {object} map[string]string "Bucket not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStorage(c.UserContext())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Schema
// @Description Checks that the books and tags tables match the catalog models (columns, types).
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 503 {object} map[string]string "Database not connected"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting schema check")

	report, err := h.service.CheckSchema(c.UserContext())
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(report)
}

// HandleAssetsCheck checks every record's asset references.
// @Summary Check Assets
// @Description Reports missing, duplicated and misfiled asset keys and records failing data-quality rules.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.AssetReport "Asset Report"
// @Failure 503 {object} map[string]string "Database not connected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/assets [get]
func (h *Handler) HandleAssetsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting asset check")

	report, err := h.service.CheckAssets(c.UserContext())
	if err != nil {
		l.Error("Asset check failed", zap.Error(err))
		return fail(c, err)
	}

	l.Info("Asset check completed",
		zap.Int("records", report.Records),
		zap.Int("missing", len(report.Missing)),
		zap.Int("misfiled", len(report.Misfiled)))
	return c.JSON(report)
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, checks.ErrNoDatabase):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, checks.ErrBucketMissing):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
