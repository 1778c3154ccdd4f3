package models

import "strconv"

// ExportColumns is the column order of the primary bulk upload section.
var ExportColumns = []string{
	"slug",
	"meeting_days",
	"start_date",
	"end_date",
	"excluded_meeting_dates",
	"meeting_start_time",
	"time_zone",
	"parent",
	"state",
	"product_type",
	"subject_name",
	"subject_id",
	"content.meta.title",
	"content.meta.description",
	"content.meta.keywords",
	"grades",
	"course_title",
	"meeting_duration",
	"duration_hours",
	"capacity",
	"instructor_name",
	"rate_type",
	"business_units",
	"price_dollars",
	"IMAGE file name",
	"sponsor_client_id",
	"sponsor_waiting_room",
	"sponsor_price_dollars",
}

const landingPageLimitColumn = "Limit number of session to show on landing page to"

// WebinarColumns is the column order of the webinar section.
var WebinarColumns = []string{
	"Type",
	"Title",
	"Purpose",
	"Template",
	"Reocurrence",
	"Cadence",
	"Days",
	"Start Date",
	"End Date",
	"Skip Date",
	"Time",
	"Duration",
	"Sessions to Generate",
	"Timezone",
	landingPageLimitColumn,
	"Allow Registration",
	"Live Event Experience",
	"Audience Room Layout",
	"Privacy",
	"Presenter",
	"Course Name",
}

// ExportedRow is one normalized bulk upload record.
type ExportedRow struct {
	Slug                 string `json:"slug"`
	MeetingDays          string `json:"meeting_days"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	ExcludedMeetingDates string `json:"excluded_meeting_dates"`
	MeetingStartTime     string `json:"meeting_start_time"`
	TimeZone             string `json:"time_zone"`
	Parent               string `json:"parent"`
	State                string `json:"state"`
	ProductType          string `json:"product_type"`
	SubjectName          string `json:"subject_name"`
	SubjectID            string `json:"subject_id"`
	ContentTitle         string `json:"content_title"`
	ContentDescription   string `json:"content_description"`
	ContentKeywords      string `json:"content_keywords"`
	Grades               string `json:"grades"`
	CourseTitle          string `json:"course_title"`
	MeetingDuration      string `json:"meeting_duration"`
	DurationHours        string `json:"duration_hours"`
	Capacity             string `json:"capacity"`
	InstructorName       string `json:"instructor_name"`
	RateType             string `json:"rate_type"`
	BusinessUnits        string `json:"business_units"`
	PriceDollars         string `json:"price_dollars"`
	ImageFileName        string `json:"image_file_name"`
	SponsorClientID      string `json:"sponsor_client_id"`
	SponsorWaitingRoom   string `json:"sponsor_waiting_room"`
	SponsorPriceDollars  string `json:"sponsor_price_dollars"`
}

// Record keys the row by its CSV column names.
func (r ExportedRow) Record() map[string]string {
	return map[string]string{
		"slug":                     r.Slug,
		"meeting_days":             r.MeetingDays,
		"start_date":               r.StartDate,
		"end_date":                 r.EndDate,
		"excluded_meeting_dates":   r.ExcludedMeetingDates,
		"meeting_start_time":       r.MeetingStartTime,
		"time_zone":                r.TimeZone,
		"parent":                   r.Parent,
		"state":                    r.State,
		"product_type":             r.ProductType,
		"subject_name":             r.SubjectName,
		"subject_id":               r.SubjectID,
		"content.meta.title":       r.ContentTitle,
		"content.meta.description": r.ContentDescription,
		"content.meta.keywords":    r.ContentKeywords,
		"grades":                   r.Grades,
		"course_title":             r.CourseTitle,
		"meeting_duration":         r.MeetingDuration,
		"duration_hours":           r.DurationHours,
		"capacity":                 r.Capacity,
		"instructor_name":          r.InstructorName,
		"rate_type":                r.RateType,
		"business_units":           r.BusinessUnits,
		"price_dollars":            r.PriceDollars,
		"IMAGE file name":          r.ImageFileName,
		"sponsor_client_id":        r.SponsorClientID,
		"sponsor_waiting_room":     r.SponsorWaitingRoom,
		"sponsor_price_dollars":    r.SponsorPriceDollars,
	}
}

// WebinarRow is the companion record for the webinar scheduling system.
type WebinarRow struct {
	Type                string `json:"type"`
	Title               string `json:"title"`
	Purpose             string `json:"purpose"`
	Template            string `json:"template"`
	Reocurrence         string `json:"reocurrence"`
	Cadence             string `json:"cadence"`
	Days                string `json:"days"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	SkipDate            string `json:"skip_date"`
	Time                string `json:"time"`
	Duration            string `json:"duration"`
	Sessions            int    `json:"sessions"`
	Timezone            string `json:"timezone"`
	LandingPageLimit    string `json:"landing_page_limit"`
	AllowRegistration   string `json:"allow_registration"`
	LiveEventExperience string `json:"live_event_experience"`
	AudienceRoomLayout  string `json:"audience_room_layout"`
	Privacy             string `json:"privacy"`
	Presenter           string `json:"presenter"`
	CourseName          string `json:"course_name"`
}

// Record keys the row by its CSV column names.
func (r WebinarRow) Record() map[string]string {
	record := map[string]string{
		"Type":                  r.Type,
		"Title":                 r.Title,
		"Purpose":               r.Purpose,
		"Template":              r.Template,
		"Reocurrence":           r.Reocurrence,
		"Cadence":               r.Cadence,
		"Days":                  r.Days,
		"Start Date":            r.StartDate,
		"End Date":              r.EndDate,
		"Skip Date":             r.SkipDate,
		"Time":                  r.Time,
		"Duration":              r.Duration,
		"Sessions to Generate":  itoa(r.Sessions),
		"Timezone":              r.Timezone,
		"Allow Registration":    r.AllowRegistration,
		"Live Event Experience": r.LiveEventExperience,
		"Audience Room Layout":  r.AudienceRoomLayout,
		"Privacy":               r.Privacy,
		"Presenter":             r.Presenter,
		"Course Name":           r.CourseName,
	}
	record[landingPageLimitColumn] = r.LandingPageLimit
	return record
}

func itoa(n int) string { return strconv.Itoa(n) }
