package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	businessModel "smallbiz-backend/internal/domains/business/model"
	"smallbiz-backend/internal/domains/importer/model"
	"smallbiz-backend/internal/domains/importer/schema"
	"smallbiz-backend/internal/domains/importer/service"
	"smallbiz-backend/internal/shared/middleware"
	"smallbiz-backend/internal/shared/response"
)

// maxUploadBytes caps accepted import files at 5 MB.
const maxUploadBytes = 5 << 20

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ImportHandler struct {
	processor service.ProcessorInterface
}

func NewImportHandler(processor service.ProcessorInterface) *ImportHandler {
	return &ImportHandler{processor: processor}
}

// Upload handles POST /api/v1/imports/:entityType with a multipart file.
func (h *ImportHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, fmt.Sprintf("file exceeds the %d MB limit", maxUploadBytes>>20))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		response.InternalServerError(c, "failed to read uploaded file")
		return
	}
	if len(content) > maxUploadBytes {
		response.BadRequest(c, fmt.Sprintf("file exceeds the %d MB limit", maxUploadBytes>>20))
		return
	}

	result, err := h.processor.ProcessFile(c.Request.Context(), userID, c.Param("entityType"), fileHeader.Filename, content)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Validation rejections and failed runs still return the full result
	// body so the caller can show per-row errors; result.Status carries
	// the outcome.
	response.Success(c, http.StatusOK, result)
}

// List handles GET /api/v1/imports.
func (h *ImportHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	limit, offset := pagination(c)

	runs, err := h.processor.ListRuns(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, runs, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  len(runs),
	})
}

// Get handles GET /api/v1/imports/:id, returning the run together with
// its persisted row errors.
func (h *ImportHandler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid import id")
		return
	}

	run, rowErrors, err := h.processor.GetRun(c.Request.Context(), userID, runID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"run":        run,
		"row_errors": rowErrors,
	})
}

// Template handles GET /api/v1/import-templates/:entityType. The default
// response is a downloadable CSV; ?format=json returns the schema
// description instead.
func (h *ImportHandler) Template(c *gin.Context) {
	entity, err := schema.ParseEntityType(c.Param("entityType"))
	if err != nil {
		response.BadRequest(c, "unknown entity type")
		return
	}

	if c.Query("format") == "json" {
		h.templateInfo(c, entity)
		return
	}

	csv, err := schema.RenderTemplate(entity)
	if err != nil {
		response.InternalServerError(c, "failed to render template")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_import_template.csv"`, entity))
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}

func (h *ImportHandler) templateInfo(c *gin.Context, entity schema.EntityType) {
	ent, err := schema.Get(entity)
	if err != nil {
		response.BadRequest(c, "unknown entity type")
		return
	}

	required, _ := schema.RequiredFields(entity)
	optional, _ := schema.OptionalFields(entity)

	response.Success(c, http.StatusOK, gin.H{
		"entity_type":     entity,
		"required_fields": required,
		"optional_fields": optional,
		"sample_rows":     ent.SampleRows,
		"instructions":    ent.Instructions,
	})
}

func (h *ImportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schema.ErrUnknownEntityType):
		response.BadRequest(c, "unknown entity type")
	case errors.Is(err, businessModel.ErrNoBusinessFound):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrSpreadsheetNotSupported):
		response.NotImplemented(c, err.Error())
	case errors.Is(err, model.ErrUnsupportedFormat):
		response.UnsupportedMediaType(c, err.Error())
	case errors.Is(err, model.ErrEmptyFile):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrRunNotFound):
		response.NotFound(c, "import not found")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
