package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/class-creator-api/internal/models"
)

func TestSessionCount(t *testing.T) {
	n, ok := SessionCount("8", "60")
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	n, ok = SessionCount("1.5", "90")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = SessionCount("5", "120")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = SessionCount("", "60")
	assert.False(t, ok)
	assert.Zero(t, n)

	_, ok = SessionCount("4", "0")
	assert.False(t, ok)
}

func TestSelectTemplate(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		sessions int
		duration int
		want     string
	}{
		{"lsat at 180", "LSAT Proctored Exam 0305H9GC", 1, 180, TemplateLSATProctored},
		{"lsat other length falls to sat", "LSAT Proctored Exam 0305H9GC", 1, 60, TemplateSATProctored},
		{"sat short", "SAT Proctored Exam 0305H9LS", 1, 60, TemplateSATProctored},
		{"sat long", "SAT Proctored Exam 0305H9LS", 3, 240, TemplateSATProctored},
		{"act", "ACT Proctored Exam 030512GC", 1, 180, TemplateACTProctored},
		{"group class", "Algebra Basics 03053HGC", 8, 60, TemplateGroupClass},
		{"livestream single", "Algebra Basics 03053HLS", 1, 60, TemplateLivestreamSingle},
		{"livestream series", "Algebra Basics 03053HLS", 8, 60, TemplateLivestreamMultiple},
		{"livestream no sessions", "Algebra Basics 03053HLS", 0, 60, ""},
		{"no match", "Algebra Basics", 8, 60, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectTemplate(tc.title, tc.sessions, tc.duration))
		})
	}
}

func TestSATProctoredIgnoresDuration(t *testing.T) {
	for _, duration := range []int{30, 60, 90, 120, 180, 240} {
		assert.Equal(t, TemplateSATProctored, SelectTemplate("Digital SAT Proctored Practice 0601H9LS", 4, duration))
	}
}

func TestWebinarTitle(t *testing.T) {
	assert.Equal(t, "Algebra Basics – March 5 Group", WebinarTitle("Algebra Basics", 1, "2024-03-05", "tue"))
	assert.Equal(t, "Algebra Basics – March 5 Group", WebinarTitle("Algebra Basics", 4, "2024-03-05", "tue"))
	assert.Equal(t, "Algebra Basics – Tuesday/Thursday Group", WebinarTitle("Algebra Basics", 8, "2024-03-05", "tue|thu"))
	assert.Equal(t, "ISEE Prep – March 5 Group", WebinarTitle("ISEE Prep", 8, "2024-03-05", "tue|thu"))
	assert.Equal(t, "SSAT Prep – March 5 Group", WebinarTitle("SSAT Prep", 10, "2024-03-05", "tue"))
	assert.Equal(t, "Isee Prep – Tuesday/Thursday Group", WebinarTitle("Isee Prep", 8, "2024-03-05", "tue|thu"))
}

func TestBuildWebinarRow(t *testing.T) {
	row := models.ExportedRow{
		MeetingDays:          "mon|wed",
		StartDate:            "2024-03-04",
		EndDate:              "2024-03-27",
		ExcludedMeetingDates: "2024-03-11",
		MeetingStartTime:     "3:30 PM",
		ContentTitle:         "Algebra Basics",
		CourseTitle:          "Algebra Basics 03043HGC",
		MeetingDuration:      "60",
		DurationHours:        "8",
	}

	webinar, degraded := BuildWebinarRow(row)
	assert.False(t, degraded)
	assert.Equal(t, "LiveWebinar", webinar.Type)
	assert.Equal(t, "Algebra Basics – Monday/Wednesday Group", webinar.Title)
	assert.Equal(t, "", webinar.Purpose)
	assert.Equal(t, TemplateGroupClass, webinar.Template)
	assert.Equal(t, "Recurring", webinar.Reocurrence)
	assert.Equal(t, "weekly", webinar.Cadence)
	assert.Equal(t, 8, webinar.Sessions)
	assert.Equal(t, "Central Time (US & Canada)", webinar.Timezone)
	assert.Equal(t, "1", webinar.LandingPageLimit)
	assert.Equal(t, "Until Duration of the class", webinar.AllowRegistration)
	assert.Equal(t, "interactive", webinar.LiveEventExperience)
	assert.Equal(t, "classic", webinar.AudienceRoomLayout)
	assert.Equal(t, "private", webinar.Privacy)
	assert.Equal(t, "2024-03-11", webinar.SkipDate)
	assert.Equal(t, row.CourseTitle, webinar.CourseName)
}

func TestBuildWebinarRowSingleSessionLivestream(t *testing.T) {
	row := models.ExportedRow{
		MeetingDays:      "sat",
		StartDate:        "2024-06-01",
		EndDate:          "2024-06-01",
		MeetingStartTime: "9:00 AM",
		ContentTitle:     "SAT Proctored Exam",
		CourseTitle:      "SAT Proctored Exam 06019HLS",
		MeetingDuration:  "180",
		DurationHours:    "3",
	}

	webinar, degraded := BuildWebinarRow(row)
	assert.False(t, degraded)
	assert.Equal(t, 1, webinar.Sessions)
	assert.Equal(t, "one time", webinar.Reocurrence)
	assert.Equal(t, "", webinar.Cadence)
	assert.Equal(t, "webcast", webinar.LiveEventExperience)
	assert.Equal(t, TemplateSATProctored, webinar.Template)
	assert.Equal(t, "SAT Proctored Exam – June 1 Group", webinar.Title)
}

func TestBuildWebinarRowDegradedSessions(t *testing.T) {
	webinar, degraded := BuildWebinarRow(models.ExportedRow{CourseTitle: "X 0101LS", MeetingDuration: "60", DurationHours: "n/a", MeetingDays: "mon"})
	assert.True(t, degraded)
	assert.Zero(t, webinar.Sessions)
	assert.Equal(t, "Recurring", webinar.Reocurrence)
}
