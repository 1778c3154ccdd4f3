package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/class-creator-api/internal/models"
)

var (
	leadingDigits = regexp.MustCompile(`\d+`)
	gradeRange    = regexp.MustCompile(`(\d+)-(\d+)`)
	itemIndicator = regexp.MustCompile(`\d+([A-Z]+)$`)
)

// ResolveGradeMapping turns grade tags into the pipe-joined grade list.
// An exact match (ignoring order) against the reference table wins;
// otherwise the grades are read from the tags themselves.
func ResolveGradeMapping(tags []string, table []models.GradeMasterEntry) string {
	if len(tags) == 0 {
		return ""
	}
	if len(table) == 0 {
		return deriveGradeMapping(tags)
	}
	want := sortedCopy(tags)
	for _, entry := range table {
		if equalStrings(want, sortedCopy(entry.ParentGradeTags)) {
			return string(entry.GradeMapping)
		}
	}
	return deriveGradeMapping(tags)
}

// ResolveTitleIndicator returns the short grade-band letter used in course
// titles. It tries a case-insensitive set match first, then the first table
// row whose numeric range covers every grade in tags.
func ResolveTitleIndicator(tags []string, table []models.GradeMasterEntry) string {
	if len(tags) == 0 || len(table) == 0 {
		return ""
	}
	want := lowerSet(tags)
	for _, entry := range table {
		if sameSet(want, lowerSet(entry.ParentGradeTags)) {
			return string(entry.TitleGradeIndicator)
		}
	}

	lo, hi, ok := gradeBounds(tags)
	if !ok {
		return ""
	}
	for _, entry := range table {
		m := gradeRange.FindStringSubmatch(string(entry.Grades))
		if m == nil {
			continue
		}
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		if from <= lo && hi <= to {
			return string(entry.TitleGradeIndicator)
		}
	}
	return ""
}

// indicatorFromItemName reads the trailing capitals after the item number,
// e.g. "Algebra Basics 01166H" -> "H".
func indicatorFromItemName(name string) string {
	m := itemIndicator.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return ""
	}
	return m[1]
}

func deriveGradeMapping(tags []string) string {
	grades := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if strings.Contains(lower, "kindergarten") {
			grades = append(grades, "k")
			continue
		}
		if digits := leadingDigits.FindString(tag); digits != "" {
			grades = append(grades, digits)
		}
	}
	return strings.Join(grades, "|")
}

func gradeBounds(tags []string) (int, int, bool) {
	lo, hi, found := 0, 0, false
	for _, tag := range tags {
		var digits strings.Builder
		for _, r := range tag {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() == 0 {
			continue
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			continue
		}
		if !found || n < lo {
			lo = n
		}
		if !found || n > hi {
			hi = n
		}
		found = true
	}
	return lo, hi, found
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
