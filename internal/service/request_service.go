package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/dto"
	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/repository"
	"github.com/noah-isme/class-creator-api/internal/validator"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/export"
)

type requestRepository interface {
	Create(ctx context.Context, req *models.ClassRequest) error
	Get(ctx context.Context, id string) (*models.ClassRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.ClassRequest, error)
	Transition(ctx context.Context, id string, from, to models.RequestStatus, classType models.ClassType) (*models.ClassRequest, error)
	TransitionAll(ctx context.Context, from, to models.RequestStatus, classType models.ClassType) (int, error)
	DeleteByStatus(ctx context.Context, status models.RequestStatus) (int, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// RequestConfig bounds submissions.
type RequestConfig struct {
	MaxSlugsPerSubmission int
	DefaultStartTime      string
}

// RequestService owns the class request lifecycle: submission by
// requesters, then a single Pending -> Approved|Denied decision by an admin.
type RequestService struct {
	repo      requestRepository
	validator *validator.Validator
	metrics   *MetricsService
	pdf       pdfRenderer
	logger    *zap.Logger
	cfg       RequestConfig
	now       func() time.Time
}

// NewRequestService constructs a RequestService.
func NewRequestService(repo requestRepository, validate *validator.Validator, metrics *MetricsService, logger *zap.Logger, cfg RequestConfig) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxSlugsPerSubmission <= 0 {
		cfg.MaxSlugsPerSubmission = 100
	}
	if cfg.DefaultStartTime == "" {
		cfg.DefaultStartTime = "12:00"
	}
	return &RequestService{
		repo:      repo,
		validator: validate,
		metrics:   metrics,
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Submit creates one Pending request per course code.
func (s *RequestService) Submit(ctx context.Context, actor string, payload dto.SubmitClassRequests) ([]models.ClassRequest, error) {
	if strings.TrimSpace(payload.StartTime) == "" {
		payload.StartTime = s.cfg.DefaultStartTime
	}
	if err := s.validator.Check(payload, "invalid class request"); err != nil {
		return nil, err
	}

	slugs := uniqueTrimmed(payload.Slugs)
	if len(slugs) > s.cfg.MaxSlugsPerSubmission {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d course codes per submission", s.cfg.MaxSlugsPerSubmission))
	}

	start, _ := models.ParseDate(payload.StartDate)
	end, _ := models.ParseDate(payload.EndDate)
	if !validator.ValidateDates(start.Time, end.Time) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be on or before end_date")
	}
	clock, _ := validator.ParseClock(payload.StartTime)

	days := canonicalDays(payload.MeetingDays)
	excluded := make([]string, 0, len(payload.ExcludedMeetingDates))
	for _, raw := range uniqueTrimmed(payload.ExcludedMeetingDates) {
		date, _ := models.ParseDate(raw)
		excluded = append(excluded, date.String())
	}

	now := s.now().UTC()
	created := make([]models.ClassRequest, 0, len(slugs))
	for _, slug := range slugs {
		req := &models.ClassRequest{
			ID:                   uuid.NewString(),
			Slug:                 slug,
			MeetingDays:          days,
			StartDate:            start,
			EndDate:              end,
			StartTime:            clock.Format("15:04"),
			ExcludedMeetingDates: excluded,
			RequestedBy:          actor,
			RequestDate:          models.NewDate(now),
			Status:               models.RequestStatusPending,
			CreatedAt:            now,
		}
		if err := s.repo.Create(ctx, req); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store class request")
		}
		created = append(created, *req)
	}

	s.logger.Info("class requests submitted",
		zap.String("requested_by", actor),
		zap.Int("count", len(created)),
	)
	return created, nil
}

// Approve moves a Pending request to Approved with the chosen class type.
func (s *RequestService) Approve(ctx context.Context, id, rawClassType string) (*models.ClassRequest, error) {
	classType, err := parseClassType(rawClassType)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, models.RequestStatusApproved, classType)
}

// Deny moves a Pending request to Denied.
func (s *RequestService) Deny(ctx context.Context, id string) (*models.ClassRequest, error) {
	return s.transition(ctx, id, models.RequestStatusDenied, "")
}

// ApproveAll approves every Pending request with one class type.
func (s *RequestService) ApproveAll(ctx context.Context, rawClassType string) (int, error) {
	classType, err := parseClassType(rawClassType)
	if err != nil {
		return 0, err
	}
	return s.transitionAll(ctx, models.RequestStatusApproved, classType)
}

// DenyAll denies every Pending request.
func (s *RequestService) DenyAll(ctx context.Context) (int, error) {
	return s.transitionAll(ctx, models.RequestStatusDenied, "")
}

// List returns requests visible to the actor. Requesters only see their own.
func (s *RequestService) List(ctx context.Context, actor string, role models.UserRole, query dto.ClassRequestQuery) ([]models.ClassRequest, error) {
	if err := s.validator.Check(query, "invalid request filter"); err != nil {
		return nil, err
	}
	filter := models.RequestFilter{
		Status:      models.RequestStatus(query.Status),
		RequestedBy: strings.TrimSpace(query.RequestedBy),
	}
	if role != models.RoleAdmin {
		filter.RequestedBy = actor
	}
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class requests")
	}
	return requests, nil
}

// Approved returns every Approved request in submission order.
func (s *RequestService) Approved(ctx context.Context) ([]models.ClassRequest, error) {
	requests, err := s.repo.List(ctx, models.RequestFilter{Status: models.RequestStatusApproved})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approved requests")
	}
	return requests, nil
}

// ClearApproved removes Approved requests once they have been exported.
func (s *RequestService) ClearApproved(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteByStatus(ctx, models.RequestStatusApproved)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear approved requests")
	}
	s.logger.Info("approved requests cleared", zap.Int("count", removed))
	return removed, nil
}

// Report renders the visible requests as a PDF table.
func (s *RequestService) Report(ctx context.Context, actor string, role models.UserRole, query dto.ClassRequestQuery) ([]byte, error) {
	requests, err := s.List(ctx, actor, role, query)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(requests))
	for _, req := range requests {
		rows = append(rows, map[string]string{
			"Slug":         req.Slug,
			"Meeting Days": req.JoinedMeetingDays(),
			"Start":        req.StartDate.String(),
			"End":          req.EndDate.String(),
			"Time":         req.StartTime,
			"Requested By": req.RequestedBy,
			"Status":       string(req.Status),
			"Class Type":   string(req.ClassType),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Slug", "Meeting Days", "Start", "End", "Time", "Requested By", "Status", "Class Type"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Class Requests %s", s.now().UTC().Format(models.DateLayout))
	payload, err := s.pdf.Render(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render request report")
	}
	return payload, nil
}

func (s *RequestService) transition(ctx context.Context, id string, to models.RequestStatus, classType models.ClassType) (*models.ClassRequest, error) {
	updated, err := s.repo.Transition(ctx, id, models.RequestStatusPending, to, classType)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class request not found")
		case errors.Is(err, repository.ErrStatusMismatch):
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "class request has already been reviewed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class request")
	}
	s.metrics.RecordTransitions(to, 1)
	s.logger.Info("class request reviewed",
		zap.String("request_id", id),
		zap.String("status", string(to)),
		zap.String("class_type", string(classType)),
	)
	return updated, nil
}

func (s *RequestService) transitionAll(ctx context.Context, to models.RequestStatus, classType models.ClassType) (int, error) {
	count, err := s.repo.TransitionAll(ctx, models.RequestStatusPending, to, classType)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class requests")
	}
	s.metrics.RecordTransitions(to, count)
	s.logger.Info("pending class requests reviewed in bulk", zap.String("status", string(to)), zap.Int("count", count))
	return count, nil
}

func parseClassType(raw string) (models.ClassType, error) {
	if strings.TrimSpace(raw) == "" {
		return models.ClassTypeGroupClass, nil
	}
	classType, ok := models.ParseClassType(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "class_type must be Livestream or Group Class")
	}
	return classType, nil
}

// canonicalDays renders weekdays by full name in selection order, dropping repeats.
func canonicalDays(raw []string) []string {
	seen := make(map[time.Weekday]struct{}, len(raw))
	days := make([]string, 0, len(raw))
	for _, name := range raw {
		day, ok := models.ParseWeekday(name)
		if !ok {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day.String())
	}
	return days
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
