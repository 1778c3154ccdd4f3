package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-creator-api/internal/dto"
	"github.com/noah-isme/class-creator-api/internal/middleware"
	"github.com/noah-isme/class-creator-api/internal/models"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/response"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type catalogService interface {
	List(ctx context.Context) (models.Catalog, error)
	Codes(ctx context.Context) ([]string, error)
	Get(ctx context.Context, code string) (*models.CourseCatalogEntry, error)
	Create(ctx context.Context, code string, entry models.CourseCatalogEntry) (*models.CourseCatalogEntry, error)
	Upsert(ctx context.Context, code string, entry models.CourseCatalogEntry) (*models.CourseCatalogEntry, bool, error)
	Replace(ctx context.Context, catalog models.Catalog) (int, error)
	Delete(ctx context.Context, code string) error
	Normalize(ctx context.Context) (int, error)
	Workbook(ctx context.Context) ([]byte, error)
}

// CourseHandler exposes the course catalog.
type CourseHandler struct {
	service catalogService
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(svc catalogService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Codes godoc
// @Summary List course codes
// @Description Sorted course codes available for class requests
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses/codes [get]
func (h *CourseHandler) Codes(c *gin.Context) {
	codes, err := h.service.Codes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(codes))
	response.JSON(c, http.StatusOK, codes, nil, middleware.ExtractMeta(c))
}

// List godoc
// @Summary Full course catalog
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	catalog, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(catalog))
	response.JSON(c, http.StatusOK, catalog, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	code := c.Param("code")
	entry, err := h.service.Get(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CourseResponse{Slug: code, Entry: *entry}, nil)
}

// Create godoc
// @Summary Add course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req.Slug, req.Entry)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CourseResponse{Slug: req.Slug, Entry: *entry})
}

// Upsert godoc
// @Summary Create or replace course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Course code"
// @Param payload body models.CourseCatalogEntry true "Course entry"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /courses/{code} [put]
func (h *CourseHandler) Upsert(c *gin.Context) {
	var entry models.CourseCatalogEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	code := c.Param("code")
	saved, created, err := h.service.Upsert(c.Request.Context(), code, entry)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(c, status, dto.CourseResponse{Slug: code, Entry: *saved}, nil)
}

// Replace godoc
// @Summary Replace the whole catalog
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body object true "Map of course code to entry"
// @Success 200 {object} response.Envelope
// @Router /courses [put]
func (h *CourseHandler) Replace(c *gin.Context) {
	var catalog models.Catalog
	if err := c.ShouldBindJSON(&catalog); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog payload"))
		return
	}
	count, err := h.service.Replace(c.Request.Context(), catalog)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CatalogWriteResponse{Entries: count}, nil)
}

// Delete godoc
// @Summary Remove course
// @Tags Courses
// @Security BearerAuth
// @Param code path string true "Course code"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{code} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Normalize godoc
// @Summary Apply catalog defaults
// @Description Fills missing state, parent and price on every entry
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses/normalize [post]
func (h *CourseHandler) Normalize(c *gin.Context) {
	changed, err := h.service.Normalize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CatalogWriteResponse{Entries: changed}, nil)
}

// Workbook godoc
// @Summary Download catalog spreadsheet
// @Tags Courses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /courses/workbook [get]
func (h *CourseHandler) Workbook(c *gin.Context) {
	payload, err := h.service.Workbook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("course_master_%s.xlsx", time.Now().UTC().Format("20060102"))
	response.Attachment(c, filename, xlsxMimeType, payload)
}
