package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/noah-isme/class-creator-api/internal/models"
)

// GradeMasterRepository loads the read-only grade reference table.
type GradeMasterRepository struct {
	path string
}

// NewGradeMasterRepository constructs a repository over the file at path.
func NewGradeMasterRepository(path string) *GradeMasterRepository {
	return &GradeMasterRepository{path: path}
}

// Load returns the table in file order. A missing file yields an empty table.
func (r *GradeMasterRepository) Load(ctx context.Context) ([]models.GradeMasterEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read grade master: %w", err)
	}
	var entries []models.GradeMasterEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode grade master: %w", err)
	}
	return entries, nil
}
