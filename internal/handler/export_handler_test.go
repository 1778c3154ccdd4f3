package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-creator-api/internal/dto"
	"github.com/noah-isme/class-creator-api/internal/service"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
)

type exportServiceMock struct {
	result      *service.ExportResult
	err         error
	download    *service.ExportDownload
	downloadErr error
	token       string
}

func (m *exportServiceMock) ExportApproved(ctx context.Context) (*service.ExportResult, error) {
	return m.result, m.err
}

func (m *exportServiceMock) OpenDownload(token string) (*service.ExportDownload, error) {
	m.token = token
	return m.download, m.downloadErr
}

func TestExportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	expires := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	handler := NewExportHandler(&exportServiceMock{result: &service.ExportResult{
		FileName:    "class_bulk_upload_20240301_120000.csv",
		URL:         "/api/v1/exports/tok",
		Rows:        2,
		WebinarRows: 2,
		Degraded:    1,
		HistoryFile: "class_requests_history_20240301.csv",
		ExpiresAt:   expires,
	}})

	c, w := newGinContext(http.MethodPost, "/exports", nil)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ExportResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, "class_bulk_upload_20240301_120000.csv", resp.FileName)
	assert.Equal(t, "/api/v1/exports/tok", resp.DownloadURL)
	assert.Equal(t, 2, resp.Rows)
	assert.Equal(t, 1, resp.DegradedCount)
	assert.True(t, expires.Equal(resp.ExpiresAt))
}

func TestExportHandlerCreateExists(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&exportServiceMock{err: appErrors.ErrExportExists})

	c, w := newGinContext(http.MethodPost, "/exports", nil)
	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrExportExists.Code, decodeEnvelope(t, w).Error.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "class_bulk_upload_20240301_120000.csv")
	require.NoError(t, os.WriteFile(path, []byte("slug\nhls-algebra-9\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	svc := &exportServiceMock{download: &service.ExportDownload{File: file, FileName: filepath.Base(path), SizeBytes: 19}}
	handler := NewExportHandler(svc)

	c, w := newGinContext(http.MethodGet, "/exports/tok", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok"}}
	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", svc.token)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "class_bulk_upload_20240301_120000.csv")
	assert.Equal(t, "slug\nhls-algebra-9\n", w.Body.String())
}

func TestExportHandlerDownloadErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewExportHandler(&exportServiceMock{})
	c, w := newGinContext(http.MethodGet, "/exports/", nil)
	c.Params = gin.Params{{Key: "token", Value: " "}}
	handler.Download(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	handler = NewExportHandler(&exportServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "download link expired")})
	c, w = newGinContext(http.MethodGet, "/exports/old", nil)
	c.Params = gin.Params{{Key: "token", Value: "old"}}
	handler.Download(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
