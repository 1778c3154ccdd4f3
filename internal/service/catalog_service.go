package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/validator"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/export"
)

const catalogCacheKey = "catalog:document"

// CatalogWorkbookColumns is the column order of the catalog spreadsheet.
var CatalogWorkbookColumns = []string{
	"Slug",
	"State",
	"Parent",
	"Parent Title",
	"Item Name",
	"Commodity Type",
	"Item Type",
	"Business Units",
	"Subject Name - General",
	"Subject ID",
	"Parent Grade Tags",
	"Days of Week",
	"Parent Course Hours",
	"Session Count",
	"Capacity",
	"Price Dollars",
	"Content Product Image",
	"Item Tags",
}

type catalogRepository interface {
	LoadAll(ctx context.Context) (models.Catalog, error)
	SaveAll(ctx context.Context, catalog models.Catalog) error
}

type workbookRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// CatalogService manages the course catalog document. Reads may be served
// from cache; writes are serialized and always go to the file.
type CatalogService struct {
	repo      catalogRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validator
	xlsx      workbookRenderer
	logger    *zap.Logger
	cacheTTL  time.Duration

	mu sync.Mutex

	// fillMu orders cache fills against invalidations; generation counts saves.
	fillMu     sync.Mutex
	generation uint64
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo catalogRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validator, logger *zap.Logger, cacheTTL time.Duration) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		xlsx:      export.NewXLSXExporter(),
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// LoadAll returns the catalog, or an empty one when it cannot be read.
func (s *CatalogService) LoadAll(ctx context.Context) models.Catalog {
	catalog, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to load course catalog, continuing with an empty catalog", zap.Error(err))
		return models.Catalog{}
	}
	return catalog
}

// SaveAll persists catalog and reports whether the write succeeded.
func (s *CatalogService) SaveAll(ctx context.Context, catalog models.Catalog) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, catalog); err != nil {
		s.logger.Error("failed to save course catalog", zap.Error(err))
		return false
	}
	return true
}

// List returns the full catalog.
func (s *CatalogService) List(ctx context.Context) (models.Catalog, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course catalog")
	}
	return catalog, nil
}

// Codes returns the sorted course codes offered for selection.
func (s *CatalogService) Codes(ctx context.Context) ([]string, error) {
	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// Get returns one entry.
func (s *CatalogService) Get(ctx context.Context, code string) (*models.CourseCatalogEntry, error) {
	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := catalog[code]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &entry, nil
}

// Create adds a new entry and fails when the code already exists.
func (s *CatalogService) Create(ctx context.Context, code string, entry models.CourseCatalogEntry) (*models.CourseCatalogEntry, error) {
	code = strings.TrimSpace(code)
	if !validator.ValidateSlug(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid course code "+code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course catalog")
	}
	if _, exists := catalog[code]; exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
	}
	entry = entry.WithDefaults()
	catalog[code] = entry
	if err := s.save(ctx, catalog); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course catalog")
	}
	return &entry, nil
}

// Upsert writes one entry. created reports whether the code was new.
func (s *CatalogService) Upsert(ctx context.Context, code string, entry models.CourseCatalogEntry) (*models.CourseCatalogEntry, bool, error) {
	code = strings.TrimSpace(code)
	if !validator.ValidateSlug(code) {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "invalid course code "+code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course catalog")
	}
	_, existed := catalog[code]
	entry = entry.WithDefaults()
	catalog[code] = entry
	if err := s.save(ctx, catalog); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course catalog")
	}
	return &entry, !existed, nil
}

// Replace overwrites the whole catalog after checking every code.
func (s *CatalogService) Replace(ctx context.Context, catalog models.Catalog) (int, error) {
	invalid := make([]string, 0)
	for code := range catalog {
		if !validator.ValidateSlug(code) {
			invalid = append(invalid, code)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid course codes: "+strings.Join(invalid, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := make(models.Catalog, len(catalog))
	for code, entry := range catalog {
		normalized[code] = entry.WithDefaults()
	}
	if err := s.save(ctx, normalized); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course catalog")
	}
	return len(normalized), nil
}

// Delete removes one entry.
func (s *CatalogService) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course catalog")
	}
	if _, ok := catalog[code]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	delete(catalog, code)
	if err := s.save(ctx, catalog); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course catalog")
	}
	return nil
}

// Normalize rewrites the stored document with defaults applied and returns
// the number of entries that changed.
func (s *CatalogService) Normalize(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course catalog")
	}
	changed := 0
	for code, entry := range catalog {
		normalized := entry.WithDefaults()
		if normalized.State != entry.State || normalized.Parent != entry.Parent || normalized.PriceDollars != entry.PriceDollars {
			changed++
		}
		catalog[code] = normalized
	}
	if err := s.save(ctx, catalog); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course catalog")
	}
	return changed, nil
}

// Workbook renders the catalog as a spreadsheet, one row per code.
func (s *CatalogService) Workbook(ctx context.Context) ([]byte, error) {
	codes, err := s.Codes(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(codes))
	for _, code := range codes {
		e := catalog[code]
		rows = append(rows, map[string]string{
			"Slug":                   code,
			"State":                  string(e.State),
			"Parent":                 string(e.Parent),
			"Parent Title":           string(e.ParentTitle),
			"Item Name":              string(e.ItemName),
			"Commodity Type":         string(e.CommodityType),
			"Item Type":              string(e.ItemType),
			"Business Units":         string(e.BusinessUnits),
			"Subject Name - General": string(e.SubjectName),
			"Subject ID":             string(e.SubjectID),
			"Parent Grade Tags":      strings.Join(e.GradeTags, ", "),
			"Days of Week":           string(e.DaysOfWeek),
			"Parent Course Hours":    string(e.CourseHours),
			"Session Count":          string(e.SessionCount),
			"Capacity":               string(e.Capacity),
			"Price Dollars":          string(e.PriceDollars),
			"Content Product Image":  string(e.ImageFile),
			"Item Tags":              strings.Join(e.ItemTags, ", "),
		})
	}
	payload, err := s.xlsx.Render(export.Dataset{Headers: CatalogWorkbookColumns, Rows: rows}, "Course Master")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render catalog workbook")
	}
	return payload, nil
}

func (s *CatalogService) load(ctx context.Context) (models.Catalog, error) {
	var cached models.Catalog
	if hit, err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil && hit && cached != nil {
		return cached, nil
	}
	s.fillMu.Lock()
	generation := s.generation
	s.fillMu.Unlock()

	catalog, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = models.Catalog{}
	}

	// A save that finished after the read above has already invalidated the
	// key; filling now would bring the old document back.
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.generation == generation {
		_ = s.cache.Set(ctx, catalogCacheKey, catalog, s.cacheTTL)
	}
	return catalog, nil
}

// save writes the document and drops the cached copy. Callers hold mu.
func (s *CatalogService) save(ctx context.Context, catalog models.Catalog) error {
	err := s.repo.SaveAll(ctx, catalog)
	s.metrics.RecordCatalogWrite(err == nil)
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.generation++
	if invalidateErr := s.cache.Invalidate(ctx, catalogCacheKey); invalidateErr != nil {
		s.logger.Warn("catalog cache left stale", zap.Error(invalidateErr))
	}
	return err
}
