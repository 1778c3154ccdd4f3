package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// CourseCatalogEntry is one course in the catalog document. The JSON keys keep
// the positional field_N names of the stored file.
type CourseCatalogEntry struct {
	State         FlexString `json:"field_1"`
	Parent        FlexString `json:"field_2"`
	ParentTitle   FlexString `json:"field_3"`
	ItemName      FlexString `json:"field_4"`
	CommodityType FlexString `json:"field_5"`
	ItemType      FlexString `json:"field_6"`
	BusinessUnits FlexString `json:"field_7"`
	SubjectName   FlexString `json:"field_8"`
	SubjectID     FlexString `json:"field_9"`
	GradeTags     TagList    `json:"field_10"`
	DaysOfWeek    FlexString `json:"field_11"`
	CourseHours   FlexString `json:"field_12"`
	SessionCount  FlexString `json:"field_13"`
	Capacity      FlexString `json:"field_14"`
	PriceDollars  FlexString `json:"field_15"`
	ImageFile     FlexString `json:"field_16"`
	ItemTags      TagList    `json:"field_17"`
}

// Catalog maps course codes to their entries.
type Catalog map[string]CourseCatalogEntry

// Default values applied to catalog entries missing them.
const (
	DefaultState  = "Published"
	DefaultParent = "Varsity Tutors"
	DefaultPrice  = "0"
)

// WithDefaults fills State, Parent and PriceDollars when blank.
func (e CourseCatalogEntry) WithDefaults() CourseCatalogEntry {
	if strings.TrimSpace(string(e.State)) == "" {
		e.State = DefaultState
	}
	if strings.TrimSpace(string(e.Parent)) == "" {
		e.Parent = DefaultParent
	}
	if strings.TrimSpace(string(e.PriceDollars)) == "" {
		e.PriceDollars = DefaultPrice
	}
	return e
}

// FlexString decodes JSON strings, numbers and booleans into text.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = FlexString(raw)
		return nil
	}
	if data[0] == '[' {
		var list TagList
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = FlexString(strings.Join(list, ","))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*s = FlexString(strconv.FormatBool(b))
	return nil
}

func (s FlexString) String() string { return string(s) }

// TagList is a list of tags. It decodes from a JSON list, from a string
// holding a JSON list, or from a plain string taken as a single tag.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = nil
		return nil
	}
	if data[0] == '[' {
		var items []FlexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			*t = nil
			return nil
		}
		out := make(TagList, 0, len(items))
		for _, item := range items {
			out = append(out, string(item))
		}
		*t = out
		return nil
	}
	var raw FlexString
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = ParseTagList(string(raw))
	return nil
}

func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// ParseTagList decodes a string-encoded JSON list, falling back to a single tag.
func ParseTagList(raw string) TagList {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			if len(items) == 0 {
				return nil
			}
			return items
		}
	}
	return TagList{trimmed}
}

// GradeMasterEntry is one row of the grade reference table.
type GradeMasterEntry struct {
	ParentGradeTags     TagList    `json:"parent_grade_tags"`
	GradeMapping        FlexString `json:"grade_mapping"`
	TitleGradeIndicator FlexString `json:"title_grade_indicator"`
	Grades              FlexString `json:"grades"`
}
