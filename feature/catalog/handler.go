package catalog

import (
	"errors"
	"fmt"
	"time"

	"library-manager/core/logger"
	"library-manager/core/reconcile"
	"library-manager/feature/catalog/models"
	"library-manager/feature/catalog/orphans"
	"library-manager/feature/catalog/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImportResponse is the body returned by a snapshot upload.
type ImportResponse struct {
	Status   string                                   `json:"status"`
	Summary  reconcile.PlanSummary                    `json:"summary"`
	Executed int                                      `json:"executed"`
	Entries  []reconcile.Entry[*models.LibraryRecord] `json:"entries"`
}

// ErrorResponse is the body returned on failure.
type ErrorResponse struct {
	Error    string `json:"error"`
	Row      *int   `json:"row,omitempty"`
	Column   string `json:"column,omitempty"`
	Value    string `json:"value,omitempty"`
	RecordID *int   `json:"record_id,omitempty"`
	Executed *int   `json:"executed,omitempty"`
}

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	now     func() time.Time
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = orphans.Report{}
	return &Handler{service: service, now: time.Now}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/snapshot", h.HandleExport)
	group.Post("/snapshot", h.HandleImport)
	group.Get("/orphans", h.HandleOrphans)
}

// HandleExport downloads the catalog snapshot.
// @Summary Export Snapshot
// @Description Builds an xlsx snapshot of every record, plus synthetic rows for unreferenced e-books and a sheet of unreferenced audiobooks.
// @Tags catalog
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Snapshot workbook"
// @Failure 503 {object} ErrorResponse "Database not connected"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /catalog/snapshot [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	data, err := h.service.Export(c.UserContext())
	if err != nil {
		l.Error("Snapshot export failed", zap.Error(err))
		return h.fail(c, err)
	}

	name := fmt.Sprintf("library-%s.xlsx", h.now().Format("20060102"))
	c.Set(fiber.HeaderContentType, snapshot.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}

// HandleImport uploads an edited snapshot.
// @Summary Import Snapshot
// @Description Parses the uploaded snapshot, plans inserts and updates against the database and applies them row by row. Writes stop at the first failure; earlier rows stay committed.
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Snapshot workbook"
// @Param dry_run query boolean false "Plan only, write nothing"
// @Success 200 {object} ImportResponse "Import Report"
// @Failure 400 {object} ErrorResponse "Missing or unreadable file"
// @Failure 422 {object} ErrorResponse "Malformed cell or duplicate id"
// @Failure 500 {object} ErrorResponse "Database write failed"
// @Router /catalog/snapshot [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "missing snapshot file"})
	}
	file, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	defer file.Close()

	l.Info("Importing snapshot", zap.String("file", fh.Filename), zap.Int64("size", fh.Size), zap.Bool("dry_run", dryRun))

	// The upload itself is the operator's confirmation.
	result, err := h.service.Import(c.UserContext(), file, reconcile.Options{DryRun: dryRun, Confirmed: true})
	if err != nil {
		l.Error("Snapshot import failed", zap.Error(err))
		if result != nil {
			return h.failWrite(c, err, result.Executed)
		}
		return h.fail(c, err)
	}

	status := "applied"
	if !result.Applied {
		status = "planned"
	}
	return c.JSON(ImportResponse{
		Status:   status,
		Summary:  result.Plan.Summary,
		Executed: result.Executed,
		Entries:  result.Plan.Pending(),
	})
}

// HandleOrphans reports unreferenced, duplicated and missing assets.
// @Summary Scan Assets
// @Description Compares the bucket listing with the catalog.
// @Tags catalog
// @Produce json
// @Success 200 {object} orphans.Report "Scan Report"
// @Failure 503 {object} ErrorResponse "Database not connected"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /catalog/orphans [get]
func (h *Handler) HandleOrphans(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Scan(c.UserContext())
	if err != nil {
		l.Error("Asset scan failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var (
		cellErr *snapshot.MalformedCellError
		dupErr  *reconcile.DuplicateIDError
	)
	switch {
	case errors.As(err, &cellErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:  err.Error(),
			Row:    &cellErr.Row,
			Column: cellErr.Header(),
			Value:  cellErr.Value,
		})
	case errors.As(err, &dupErr):
		id := dupErr.ID
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error(), RecordID: &id})
	case errors.Is(err, snapshot.ErrMissingSheet), errors.Is(err, snapshot.ErrUnreadable):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNoDatabase):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
}

func (h *Handler) failWrite(c *fiber.Ctx, err error, executed int) error {
	resp := ErrorResponse{Error: err.Error(), Executed: &executed}
	var writeErr *reconcile.DatabaseWriteError
	if errors.As(err, &writeErr) {
		resp.Row = &writeErr.Row
		if writeErr.RecordID != 0 {
			resp.RecordID = &writeErr.RecordID
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}
