package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-creator-api/internal/dto"
	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/repository"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
)

func newRequestServiceForTest() *RequestService {
	svc := NewRequestService(repository.NewRequestRepository(), nil, NewMetricsService(), nil, RequestConfig{MaxSlugsPerSubmission: 3})
	svc.now = func() time.Time { return time.Date(2024, 2, 20, 15, 0, 0, 0, time.UTC) }
	return svc
}

func validSubmission() dto.SubmitClassRequests {
	return dto.SubmitClassRequests{
		Slugs:                []string{"vtp-algebra-basics", "vtp-geometry-10"},
		MeetingDays:          []string{"wed", "Monday", "Wednesday"},
		StartDate:            "2024-03-04",
		EndDate:              "2024-03-27",
		StartTime:            "15:30",
		ExcludedMeetingDates: []string{"2024-03-11"},
	}
}

func TestRequestServiceSubmit(t *testing.T) {
	svc := newRequestServiceForTest()
	created, err := svc.Submit(context.Background(), "user", validSubmission())
	require.NoError(t, err)
	require.Len(t, created, 2)

	first := created[0]
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, created[1].ID)
	assert.Equal(t, "vtp-algebra-basics", first.Slug)
	assert.Equal(t, []string{"Wednesday", "Monday"}, first.MeetingDays)
	assert.Equal(t, "2024-03-04", first.StartDate.String())
	assert.Equal(t, "15:30", first.StartTime)
	assert.Equal(t, []string{"2024-03-11"}, first.ExcludedMeetingDates)
	assert.Equal(t, "user", first.RequestedBy)
	assert.Equal(t, "2024-02-20", first.RequestDate.String())
	assert.Equal(t, models.RequestStatusPending, first.Status)
	assert.Empty(t, first.ClassType)
}

func TestRequestServiceSubmitDefaultsStartTime(t *testing.T) {
	svc := newRequestServiceForTest()
	payload := validSubmission()
	payload.StartTime = ""
	created, err := svc.Submit(context.Background(), "user", payload)
	require.NoError(t, err)
	assert.Equal(t, "12:00", created[0].StartTime)
}

func TestRequestServiceSubmitValidation(t *testing.T) {
	svc := newRequestServiceForTest()
	ctx := context.Background()

	cases := map[string]func(p *dto.SubmitClassRequests){
		"no slugs":       func(p *dto.SubmitClassRequests) { p.Slugs = nil },
		"bad slug":       func(p *dto.SubmitClassRequests) { p.Slugs = []string{"algebra"} },
		"no days":        func(p *dto.SubmitClassRequests) { p.MeetingDays = nil },
		"bad day":        func(p *dto.SubmitClassRequests) { p.MeetingDays = []string{"Funday"} },
		"bad date":       func(p *dto.SubmitClassRequests) { p.StartDate = "03/04/2024" },
		"reversed dates": func(p *dto.SubmitClassRequests) { p.StartDate, p.EndDate = p.EndDate, p.StartDate },
		"bad time":       func(p *dto.SubmitClassRequests) { p.StartTime = "3pm" },
		"too many slugs": func(p *dto.SubmitClassRequests) { p.Slugs = []string{"vt-a-1", "vt-b-2", "vt-c-3", "vt-d-4"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			payload := validSubmission()
			mutate(&payload)
			_, err := svc.Submit(ctx, "user", payload)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation), err.Error())
		})
	}

	all, err := svc.List(ctx, "admin", models.RoleAdmin, dto.ClassRequestQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRequestServiceSubmitAcceptsSameDayRange(t *testing.T) {
	svc := newRequestServiceForTest()
	payload := validSubmission()
	payload.EndDate = payload.StartDate
	_, err := svc.Submit(context.Background(), "user", payload)
	assert.NoError(t, err)
}

func TestRequestServiceApproveDeny(t *testing.T) {
	svc := newRequestServiceForTest()
	ctx := context.Background()
	created, err := svc.Submit(ctx, "user", validSubmission())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created[0].ID, "Livestream")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	assert.Equal(t, models.ClassTypeLivestream, approved.ClassType)

	_, err = svc.Deny(ctx, created[0].ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
	_, err = svc.Approve(ctx, created[0].ID, "gc")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))

	denied, err := svc.Deny(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusDenied, denied.Status)
	assert.Empty(t, denied.ClassType)

	_, err = svc.Approve(ctx, "missing", "")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Approve(ctx, created[1].ID, "webinar")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRequestServiceBulkTransitions(t *testing.T) {
	svc := newRequestServiceForTest()
	ctx := context.Background()
	_, err := svc.Submit(ctx, "user", validSubmission())
	require.NoError(t, err)

	count, err := svc.ApproveAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.DenyAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	approved, err := svc.Approved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	for _, req := range approved {
		assert.Equal(t, models.ClassTypeGroupClass, req.ClassType)
	}

	removed, err := svc.ClearApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	approved, err = svc.Approved(ctx)
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestRequestServiceListScopesRequesters(t *testing.T) {
	svc := newRequestServiceForTest()
	ctx := context.Background()
	_, err := svc.Submit(ctx, "alice", validSubmission())
	require.NoError(t, err)
	payload := validSubmission()
	payload.Slugs = []string{"vt-reading-3"}
	_, err = svc.Submit(ctx, "bob", payload)
	require.NoError(t, err)

	own, err := svc.List(ctx, "bob", models.RoleRequester, dto.ClassRequestQuery{RequestedBy: "alice"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "bob", own[0].RequestedBy)

	all, err := svc.List(ctx, "admin", models.RoleAdmin, dto.ClassRequestQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.List(ctx, "admin", models.RoleAdmin, dto.ClassRequestQuery{RequestedBy: "alice", Status: "Pending"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	_, err = svc.List(ctx, "admin", models.RoleAdmin, dto.ClassRequestQuery{Status: "Archived"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRequestServiceReport(t *testing.T) {
	svc := newRequestServiceForTest()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		payload := validSubmission()
		payload.Slugs = []string{fmt.Sprintf("vt-course-%d", i)}
		_, err := svc.Submit(ctx, "user", payload)
		require.NoError(t, err)
	}

	pdf, err := svc.Report(ctx, "admin", models.RoleAdmin, dto.ClassRequestQuery{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
