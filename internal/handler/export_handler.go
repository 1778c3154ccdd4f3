package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-creator-api/internal/dto"
	"github.com/noah-isme/class-creator-api/internal/service"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/response"
)

type exportService interface {
	ExportApproved(ctx context.Context) (*service.ExportResult, error)
	OpenDownload(token string) (*service.ExportDownload, error)
}

// ExportHandler generates and serves bulk upload files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create godoc
// @Summary Export approved requests
// @Description Writes a new two-section bulk upload CSV and returns a signed download link
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	result, err := h.service.ExportApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{
		FileName:      result.FileName,
		Rows:          result.Rows,
		WebinarRows:   result.WebinarRows,
		DegradedCount: result.Degraded,
		HistoryFile:   result.HistoryFile,
		DownloadURL:   result.URL,
		ExpiresAt:     result.ExpiresAt,
	})
}

// Download godoc
// @Summary Download bulk upload file via signed token
// @Tags Exports
// @Produce text/csv
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if strings.TrimSpace(token) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.service.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	response.AttachmentHeaders(c, result.FileName)
	c.DataFromReader(http.StatusOK, result.SizeBytes, "text/csv", result.File, nil)
}
