package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/models"
)

const productTypeSmallGroup = "small_group"

// TransformConfig holds the constants stamped on every exported row.
type TransformConfig struct {
	MeetingDuration int
	TimeZone        string
}

// TransformService turns approved requests into bulk upload rows.
type TransformService struct {
	lookups models.Lookups
	cfg     TransformConfig
	logger  *zap.Logger
}

// NewTransformService constructs a TransformService.
func NewTransformService(lookups models.Lookups, cfg TransformConfig, logger *zap.Logger) *TransformService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MeetingDuration <= 0 {
		cfg.MeetingDuration = 60
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "America/Chicago"
	}
	return &TransformService{lookups: lookups, cfg: cfg, logger: logger}
}

// ResolveCourse returns the catalog entry for code, or an entry synthesized
// from the code itself when the catalog has none. found reports which.
func (s *TransformService) ResolveCourse(code string, catalog models.Catalog) (models.CourseCatalogEntry, bool) {
	if entry, ok := catalog[code]; ok {
		return entry.WithDefaults(), true
	}

	info := ParseSlug(code)
	title := fmt.Sprintf("%s %s for %s", strings.ToUpper(info.Brand), info.Subject, info.Grade)
	s.logger.Info("course code missing from catalog, synthesizing entry",
		zap.String("slug", code),
		zap.String("title", title),
	)
	return models.CourseCatalogEntry{
		State:         models.DefaultState,
		Parent:        models.DefaultParent,
		ParentTitle:   models.FlexString(title),
		SubjectName:   models.FlexString(info.Subject),
		SubjectID:     models.FlexString(s.lookups.SubjectID(info.Subject)),
		BusinessUnits: models.FlexString(s.lookups.BusinessUnit(info.Brand)),
		GradeTags:     info.GradeTags(),
		PriceDollars:  models.DefaultPrice,
	}, false
}

// Transform builds the row for one approved request. degraded counts the
// fields that could not be derived and were left blank.
func (s *TransformService) Transform(req models.ClassRequest, catalog models.Catalog, grades []models.GradeMasterEntry) (row models.ExportedRow, degraded int) {
	entry, _ := s.ResolveCourse(req.Slug, catalog)
	title := string(entry.ParentTitle)

	row = models.ExportedRow{
		Slug:                 req.Slug,
		MeetingDays:          FormatMeetingDays(req.JoinedMeetingDays()),
		StartDate:            req.StartDate.String(),
		EndDate:              req.EndDate.String(),
		ExcludedMeetingDates: FilterExcludedDates(req.ExcludedMeetingDates, req.StartDate, req.EndDate, req.MeetingDays, s.logger),
		TimeZone:             s.cfg.TimeZone,
		Parent:               string(entry.Parent),
		State:                string(entry.State),
		ProductType:          productTypeSmallGroup,
		SubjectName:          string(entry.SubjectName),
		SubjectID:            string(entry.SubjectID),
		ContentTitle:         title,
		ContentDescription:   title,
		ContentKeywords:      title,
		Grades:               ResolveGradeMapping(entry.GradeTags, grades),
		MeetingDuration:      strconv.Itoa(s.cfg.MeetingDuration),
		DurationHours:        string(entry.CourseHours),
		Capacity:             string(entry.Capacity),
		RateType:             string(entry.ItemType),
		BusinessUnits:        pipeJoin(string(entry.BusinessUnits)),
		PriceDollars:         string(entry.PriceDollars),
		ImageFileName:        string(entry.ImageFile),
		SponsorClientID:      "0",
		SponsorPriceDollars:  "0",
	}

	for _, value := range []string{row.StartDate, row.EndDate} {
		if value == "" {
			degraded++
		}
	}

	startTime, err := FormatTime(req.StartTime)
	if err != nil {
		s.logger.Warn("unparseable start time", zap.String("request_id", req.ID), zap.String("start_time", req.StartTime), zap.Error(err))
		degraded++
	}
	row.MeetingStartTime = startTime

	if req.StartDate.IsZero() || startTime == "" {
		degraded++
		return row, degraded
	}

	indicator := ResolveTitleIndicator(entry.GradeTags, grades)
	if indicator == "" {
		indicator = indicatorFromItemName(string(entry.ItemName))
	}
	classType := req.ClassType
	if classType == "" {
		classType = models.ClassTypeGroupClass
	}
	row.CourseTitle = fmt.Sprintf("%s %s%s%s%s",
		title,
		req.StartDate.Format("0102"),
		ExtractHour(startTime),
		indicator,
		classType.Suffix(),
	)
	return row, degraded
}

// TransformAll converts every request, keeping input order.
func (s *TransformService) TransformAll(requests []models.ClassRequest, catalog models.Catalog, grades []models.GradeMasterEntry) ([]models.ExportedRow, int) {
	rows := make([]models.ExportedRow, 0, len(requests))
	total := 0
	for _, req := range requests {
		row, degraded := s.Transform(req, catalog, grades)
		rows = append(rows, row)
		total += degraded
	}
	return rows, total
}

// pipeJoin rewrites a comma list as "a|b".
func pipeJoin(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "|")
}
