package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/class-creator-api/internal/models"
)

// Webinar template ids.
const (
	TemplateLSATProctored      = "77386caeed73"
	TemplateSATProctored       = "2c0b0f64b5ca"
	TemplateACTProctored       = "a572c93cbaf6"
	TemplateGroupClass         = "7de404c0a50a"
	TemplateLivestreamSingle   = "8a90329c07bf"
	TemplateLivestreamMultiple = "bec6b6228a69"
)

const webinarTimezone = "Central Time (US & Canada)"

// SessionCount is duration_hours divided by the meeting length in hours,
// truncated. ok is false when either value is not a number.
func SessionCount(durationHours, meetingDuration string) (int, bool) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(durationHours), 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(meetingDuration))
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return int(hours / (float64(minutes) / 60)), true
}

// SelectTemplate picks the webinar template from the course title. The
// first matching rule wins.
func SelectTemplate(courseTitle string, sessions, meetingDuration int) string {
	lower := strings.ToLower(courseTitle)
	switch {
	case strings.Contains(lower, "lsat proctored") && meetingDuration == 180:
		return TemplateLSATProctored
	case strings.Contains(lower, "sat proctored"):
		return TemplateSATProctored
	case strings.Contains(lower, "act proctored"):
		return TemplateACTProctored
	case strings.Contains(lower, "gc"):
		return TemplateGroupClass
	case strings.Contains(lower, "ls") && sessions == 1:
		return TemplateLivestreamSingle
	case strings.Contains(lower, "ls") && sessions > 1:
		return TemplateLivestreamMultiple
	}
	return ""
}

// WebinarTitle names the event after its first date for one-off and short
// runs and test-prep courses, otherwise after its weekdays.
func WebinarTitle(name string, sessions int, startDate, meetingDays string) string {
	byDate := sessions == 1 || (sessions >= 4 && sessions <= 5) ||
		strings.Contains(name, "ISEE") || strings.Contains(name, "SSAT")
	if byDate {
		if date, err := models.ParseDate(startDate); err == nil {
			return fmt.Sprintf("%s – %s Group", name, date.Format("January 2"))
		}
	}
	return fmt.Sprintf("%s – %s Group", name, DayLabels(meetingDays))
}

// BuildWebinarRow derives the webinar section record from a primary row.
// degraded is true when the session count could not be computed.
func BuildWebinarRow(row models.ExportedRow) (models.WebinarRow, bool) {
	sessions, ok := SessionCount(row.DurationHours, row.MeetingDuration)
	duration, _ := strconv.Atoi(row.MeetingDuration)

	reocurrence, cadence := "Recurring", "weekly"
	if sessions == 1 {
		reocurrence, cadence = "one time", ""
	}
	experience := "webcast"
	if strings.Contains(strings.ToUpper(row.CourseTitle), "GC") {
		experience = "interactive"
	}

	return models.WebinarRow{
		Type:                "LiveWebinar",
		Title:               WebinarTitle(row.ContentTitle, sessions, row.StartDate, row.MeetingDays),
		Template:            SelectTemplate(row.CourseTitle, sessions, duration),
		Reocurrence:         reocurrence,
		Cadence:             cadence,
		Days:                row.MeetingDays,
		StartDate:           row.StartDate,
		EndDate:             row.EndDate,
		SkipDate:            row.ExcludedMeetingDates,
		Time:                row.MeetingStartTime,
		Duration:            row.MeetingDuration,
		Sessions:            sessions,
		Timezone:            webinarTimezone,
		LandingPageLimit:    "1",
		AllowRegistration:   "Until Duration of the class",
		LiveEventExperience: experience,
		AudienceRoomLayout:  "classic",
		Privacy:             "private",
		CourseName:          row.CourseTitle,
	}, !ok
}
