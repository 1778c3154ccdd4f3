package models

import (
	"strings"
	"time"
)

// RequestStatus tracks a class request through review.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusDenied   RequestStatus = "Denied"
)

// ClassType is chosen by the admin when approving a request.
type ClassType string

const (
	ClassTypeLivestream ClassType = "Livestream"
	ClassTypeGroupClass ClassType = "Group Class"
)

// ParseClassType accepts the display names and their short codes.
func ParseClassType(raw string) (ClassType, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", "")) {
	case "livestream", "ls":
		return ClassTypeLivestream, true
	case "groupclass", "gc":
		return ClassTypeGroupClass, true
	}
	return "", false
}

// Suffix is the two letter code appended to generated course titles.
func (t ClassType) Suffix() string {
	if t == ClassTypeLivestream {
		return "LS"
	}
	return "GC"
}

// ClassRequest is one submission for one course code.
type ClassRequest struct {
	ID                   string        `json:"id"`
	Slug                 string        `json:"slug"`
	MeetingDays          []string      `json:"meeting_days"`
	StartDate            Date          `json:"start_date"`
	EndDate              Date          `json:"end_date"`
	StartTime            string        `json:"start_time"`
	ExcludedMeetingDates []string      `json:"excluded_meeting_dates"`
	RequestedBy          string        `json:"requested_by"`
	RequestDate          Date          `json:"request_date"`
	Status               RequestStatus `json:"status"`
	ClassType            ClassType     `json:"class_type,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
}

// JoinedMeetingDays renders the meeting days the way the request table
// stores them, e.g. "Monday,Wednesday".
func (r *ClassRequest) JoinedMeetingDays() string {
	return strings.Join(r.MeetingDays, ",")
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	Status      RequestStatus
	RequestedBy string
}

// Matches reports whether req satisfies the filter.
func (f RequestFilter) Matches(req *ClassRequest) bool {
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	if f.RequestedBy != "" && req.RequestedBy != f.RequestedBy {
		return false
	}
	return true
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts full names and common abbreviations, case-insensitive.
func ParseWeekday(raw string) (time.Weekday, bool) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}
