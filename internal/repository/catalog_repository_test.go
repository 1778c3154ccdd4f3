package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/models"
)

func sampleCatalog() models.Catalog {
	return models.Catalog{
		"vtp-algebra-basics": {
			State:         "Published",
			Parent:        "Varsity Tutors",
			ParentTitle:   "Algebra Basics",
			ItemName:      "Algebra Basics 01166H",
			ItemType:      "per_session",
			BusinessUnits: "VT,VTP",
			SubjectName:   "Algebra",
			SubjectID:     "MATH-ALG",
			GradeTags:     models.TagList{"9th Grade", "10th Grade"},
			CourseHours:   "8",
			Capacity:      "20",
			PriceDollars:  "199",
		},
		"vtp-geometry": {ParentTitle: "Geometry"},
	}
}

func TestCatalogRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course_master.json")
	repo := NewCatalogRepository(path, zap.NewNop())
	ctx := context.Background()

	catalog := sampleCatalog()
	require.NoError(t, repo.SaveAll(ctx, catalog))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog, loaded)

	entry, err := repo.Get(ctx, "vtp-geometry")
	require.NoError(t, err)
	assert.Equal(t, models.FlexString("Geometry"), entry.ParentTitle)

	_, err = repo.Get(ctx, "vtp-unknown")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogRepositoryMissingFileIsEmpty(t *testing.T) {
	repo := NewCatalogRepository(filepath.Join(t.TempDir(), "missing.json"), nil)
	catalog, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestCatalogRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course_master.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewCatalogRepository(path, nil).LoadAll(context.Background())
	require.Error(t, err)
}

func TestCatalogRepositoryWritesIndentedPositionalKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course_master.json")
	repo := NewCatalogRepository(path, nil)
	require.NoError(t, repo.SaveAll(context.Background(), models.Catalog{"vtp-geometry": {ParentTitle: "Geometry"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"vtp-geometry\": {\n    \"field_1\": \"\",")
	assert.Contains(t, string(raw), `"field_3": "Geometry"`)
	assert.Contains(t, string(raw), `"field_10": []`)
}
