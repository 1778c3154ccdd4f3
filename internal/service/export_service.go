package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/models"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/export"
	"github.com/noah-isme/class-creator-api/pkg/storage"
)

// sectionGap is the number of blank lines between the two CSV sections.
const sectionGap = 5

type approvedRequestSource interface {
	Approved(ctx context.Context) ([]models.ClassRequest, error)
}

type catalogSource interface {
	LoadAll(ctx context.Context) models.Catalog
}

type gradeTableSource interface {
	Load(ctx context.Context) ([]models.GradeMasterEntry, error)
}

type exportStorage interface {
	Create(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type historyWriter interface {
	Append(ctx context.Context, day time.Time, requests []models.ClassRequest) (string, error)
}

type sectionRenderer interface {
	RenderSections(gap int, sections ...export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	FileName    string
	Token       string
	URL         string
	Rows        int
	WebinarRows int
	Degraded    int
	HistoryFile string
	ExpiresAt   time.Time
}

// ExportDownload is an opened export file ready to stream.
type ExportDownload struct {
	File      *os.File
	FileName  string
	SizeBytes int64
}

// ExportService turns approved requests into the two-section bulk upload file.
type ExportService struct {
	requests  approvedRequestSource
	catalog   catalogSource
	grades    gradeTableSource
	transform *TransformService
	storage   exportStorage
	history   historyWriter
	csv       sectionRenderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(
	requests approvedRequestSource,
	catalog catalogSource,
	grades gradeTableSource,
	transform *TransformService,
	store exportStorage,
	history historyWriter,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	cfg ExportConfig,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		requests:  requests,
		catalog:   catalog,
		grades:    grades,
		transform: transform,
		storage:   store,
		history:   history,
		csv:       export.NewCSVExporter(),
		signer:    signer,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// BuildSections transforms requests into the primary and webinar datasets
// and returns the number of degraded fields.
func (s *ExportService) BuildSections(ctx context.Context, requests []models.ClassRequest) (export.Dataset, export.Dataset, int) {
	catalog := s.catalog.LoadAll(ctx)
	grades, err := s.grades.Load(ctx)
	if err != nil {
		s.logger.Warn("grade reference table unavailable, deriving grades from tags", zap.Error(err))
		grades = nil
	}

	rows, degraded := s.transform.TransformAll(requests, catalog, grades)
	primary := export.Dataset{Headers: models.ExportColumns, Rows: make([]map[string]string, 0, len(rows))}
	webinar := export.Dataset{Headers: models.WebinarColumns, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		primary.Rows = append(primary.Rows, row.Record())
		webinarRow, bad := BuildWebinarRow(row)
		if bad {
			s.logger.Warn("session count unavailable", zap.String("slug", row.Slug), zap.String("duration_hours", row.DurationHours))
			degraded++
		}
		webinar.Rows = append(webinar.Rows, webinarRow.Record())
	}
	return primary, webinar, degraded
}

// ExportApproved writes every Approved request to a new bulk upload file.
// An existing file with the same name is never overwritten.
func (s *ExportService) ExportApproved(ctx context.Context) (*ExportResult, error) {
	started := time.Now()
	requests, err := s.requests.Approved(ctx)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no approved requests to export")
	}

	primary, webinar, degraded := s.BuildSections(ctx, requests)
	payload, err := s.csv.RenderSections(sectionGap, primary, webinar)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render bulk upload file")
	}

	now := s.now().UTC()
	filename := s.buildFilename(now)
	relPath, err := s.storage.Create(filename, payload)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, appErrors.Clone(appErrors.ErrExportExists, fmt.Sprintf("export %s already exists", filename))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write bulk upload file")
	}

	result := &ExportResult{
		FileName:    filename,
		Rows:        len(primary.Rows),
		WebinarRows: len(webinar.Rows),
		Degraded:    degraded,
	}

	if s.history != nil {
		historyFile, err := s.history.Append(ctx, now, requests)
		if err != nil {
			s.logger.Error("failed to record request history", zap.String("file", filename), zap.Error(err))
		} else {
			result.HistoryFile = historyFile
		}
	}

	token, expiresAt, err := s.signer.Generate(uuid.NewString(), relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	result.Token = token
	result.URL = fmt.Sprintf("%s/exports/%s", prefix, token)
	result.ExpiresAt = expiresAt

	s.metrics.ObserveExport(result.Rows, degraded, time.Since(started))
	s.logger.Info("bulk upload file written",
		zap.String("file", filename),
		zap.Int("rows", result.Rows),
		zap.Int("degraded_fields", degraded),
	)
	return result, nil
}

// OpenDownload validates a signed token and opens the file it names.
func (s *ExportService) OpenDownload(token string) (*ExportDownload, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenExpired):
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		default:
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
		}
	}
	file, err := s.storage.Open(claims.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file")
	}
	return &ExportDownload{File: file, FileName: claims.Path, SizeBytes: info.Size()}, nil
}

func (s *ExportService) buildFilename(now time.Time) string {
	return fmt.Sprintf("class_bulk_upload_%s.csv", now.Format("20060102_150405"))
}
