package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/noah-isme/class-creator-api/internal/models"
)

// DefaultLookups are the built-in brand and subject tables.
func DefaultLookups() models.Lookups {
	return models.Lookups{
		BusinessUnits: map[string]string{
			"vtgsc": "Varsity Tutors Global Study Center",
			"vtp":   "Varsity Tutors Platform",
			"vtpsg": "Varsity Tutors Private School Group",
			"vtsaz": "Varsity Tutors School Acceleration Zone",
		},
		DefaultBusinessUnit: "Varsity Tutors",
		Subjects: []models.SubjectCode{
			{Match: "Math", ID: "MATH"},
			{Match: "Mathematics", ID: "MATH"},
			{Match: "Algebra", ID: "MATH-ALG"},
			{Match: "Geometry", ID: "MATH-GEO"},
			{Match: "Science", ID: "SCI"},
			{Match: "Biology", ID: "SCI-BIO"},
			{Match: "Chemistry", ID: "SCI-CHEM"},
			{Match: "Physics", ID: "SCI-PHYS"},
			{Match: "English", ID: "ENG"},
			{Match: "Reading", ID: "ENG-READ"},
			{Match: "Writing", ID: "ENG-WRIT"},
			{Match: "History", ID: "HIST"},
			{Match: "Social Studies", ID: "SOC"},
			{Match: "Art", ID: "ART"},
			{Match: "Music", ID: "MUS"},
			{Match: "Computer Science", ID: "CS"},
			{Match: "Programming", ID: "CS-PROG"},
			{Match: "Foreign Language", ID: "LANG"},
			{Match: "Spanish", ID: "LANG-SPA"},
			{Match: "French", ID: "LANG-FRE"},
		},
	}
}

// LookupRepository merges an optional TOML file over the built-in tables.
type LookupRepository struct {
	path string
}

// NewLookupRepository constructs a repository reading path when it exists.
func NewLookupRepository(path string) *LookupRepository {
	return &LookupRepository{path: path}
}

// Load returns the merged tables. File business units replace defaults per
// brand; file subjects are checked before the built-in ones.
func (r *LookupRepository) Load(ctx context.Context) (models.Lookups, error) {
	lookups := DefaultLookups()
	if err := ctx.Err(); err != nil {
		return lookups, err
	}
	if r.path == "" {
		return lookups, nil
	}
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lookups, nil
		}
		return lookups, fmt.Errorf("stat lookups: %w", err)
	}

	var overlay models.Lookups
	if _, err := toml.DecodeFile(r.path, &overlay); err != nil {
		return lookups, fmt.Errorf("decode lookups: %w", err)
	}
	for brand, unit := range overlay.BusinessUnits {
		lookups.BusinessUnits[strings.ToLower(brand)] = unit
	}
	if overlay.DefaultBusinessUnit != "" {
		lookups.DefaultBusinessUnit = overlay.DefaultBusinessUnit
	}
	if len(overlay.Subjects) > 0 {
		lookups.Subjects = append(append([]models.SubjectCode{}, overlay.Subjects...), lookups.Subjects...)
	}
	return lookups, nil
}
