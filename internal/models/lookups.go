package models

import "strings"

// SubjectCode maps a subject name fragment to its subject id.
type SubjectCode struct {
	Match string `toml:"match" json:"match"`
	ID    string `toml:"id" json:"id"`
}

// Lookups are the reference tables used when a course code has no catalog entry.
type Lookups struct {
	BusinessUnits       map[string]string `toml:"business_units" json:"business_units"`
	DefaultBusinessUnit string            `toml:"default_business_unit" json:"default_business_unit"`
	Subjects            []SubjectCode     `toml:"subjects" json:"subjects"`
}

// BusinessUnit resolves a brand prefix, falling back to the default unit.
func (l Lookups) BusinessUnit(brand string) string {
	if unit, ok := l.BusinessUnits[strings.ToLower(brand)]; ok {
		return unit
	}
	return l.DefaultBusinessUnit
}

// SubjectID returns the id of the first table entry contained in subject.
// Unmapped subjects use their first four letters, upper-cased, spaces removed.
func (l Lookups) SubjectID(subject string) string {
	lower := strings.ToLower(subject)
	for _, entry := range l.Subjects {
		if entry.Match != "" && strings.Contains(lower, strings.ToLower(entry.Match)) {
			return entry.ID
		}
	}
	compact := []rune(strings.ToUpper(strings.ReplaceAll(subject, " ", "")))
	if len(compact) > 4 {
		compact = compact[:4]
	}
	return string(compact)
}
