package dto

import "github.com/noah-isme/class-creator-api/internal/models"

// SubmitClassRequests is the payload of a class request submission. Each
// course code becomes its own request sharing the schedule fields.
type SubmitClassRequests struct {
	Slugs                []string `json:"slugs" validate:"required,min=1,dive,required,slug"`
	MeetingDays          []string `json:"meeting_days" validate:"required,min=1,dive,required,weekday"`
	StartDate            string   `json:"start_date" validate:"required,isodate"`
	EndDate              string   `json:"end_date" validate:"required,isodate"`
	StartTime            string   `json:"start_time" validate:"omitempty,clock"`
	ExcludedMeetingDates []string `json:"excluded_meeting_dates" validate:"omitempty,dive,isodate"`
}

// ApproveClassRequest selects the class type for an approval. An empty
// value means Group Class.
type ApproveClassRequest struct {
	ClassType string `json:"class_type" validate:"omitempty,classtype"`
}

// ClassRequestQuery filters request listings.
type ClassRequestQuery struct {
	Status      string `form:"status" validate:"omitempty,oneof=Pending Approved Denied"`
	RequestedBy string `form:"requested_by"`
}

// SubmitClassRequestsResponse lists the created requests.
type SubmitClassRequestsResponse struct {
	Created  int                   `json:"created"`
	Requests []models.ClassRequest `json:"requests"`
}

// BulkTransitionResponse reports how many requests a bulk action touched.
type BulkTransitionResponse struct {
	Affected int `json:"affected"`
}
