package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/pkg/storage"
)

// CatalogRepository reads and rewrites the catalog JSON document.
type CatalogRepository struct {
	path   string
	logger *zap.Logger
}

// NewCatalogRepository constructs a repository over the file at path.
func NewCatalogRepository(path string, logger *zap.Logger) *CatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogRepository{path: path, logger: logger}
}

// LoadAll reads the whole document. A missing file is an empty catalog.
func (r *CatalogRepository) LoadAll(ctx context.Context) (models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("catalog file missing, treating as empty", zap.String("path", r.path))
			return models.Catalog{}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	catalog := models.Catalog{}
	if len(raw) == 0 {
		return catalog, nil
	}
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return catalog, nil
}

// SaveAll replaces the whole document.
func (r *CatalogRepository) SaveAll(ctx context.Context, catalog models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if catalog == nil {
		catalog = models.Catalog{}
	}
	payload, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := storage.WriteFileAtomic(r.path, payload); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Get returns the entry for code.
func (r *CatalogRepository) Get(ctx context.Context, code string) (*models.CourseCatalogEntry, error) {
	catalog, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := catalog[code]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}
