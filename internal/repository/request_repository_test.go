package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-creator-api/internal/models"
)

func newRequest(id, slug, by string) *models.ClassRequest {
	return &models.ClassRequest{
		ID:          id,
		Slug:        slug,
		MeetingDays: []string{"Monday"},
		StartTime:   "12:00",
		RequestedBy: by,
		Status:      models.RequestStatusPending,
	}
}

func TestRequestRepositoryCreateListGet(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRequest("1", "vtp-math-6", "user")))
	require.NoError(t, repo.Create(ctx, newRequest("2", "vtp-math-7", "admin")))
	require.ErrorIs(t, repo.Create(ctx, newRequest("1", "vtp-math-8", "user")), ErrDuplicate)

	all, err := repo.List(ctx, models.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "2", all[1].ID)

	mine, err := repo.List(ctx, models.RequestFilter{RequestedBy: "user"})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	got.MeetingDays[0] = "Friday"
	again, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Monday", again.MeetingDays[0])

	_, err = repo.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRequestRepositoryTransitions(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newRequest("1", "vtp-math-6", "user")))
	require.NoError(t, repo.Create(ctx, newRequest("2", "vtp-math-7", "user")))
	require.NoError(t, repo.Create(ctx, newRequest("3", "vtp-math-8", "user")))

	approved, err := repo.Transition(ctx, "1", models.RequestStatusPending, models.RequestStatusApproved, models.ClassTypeLivestream)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	assert.Equal(t, models.ClassTypeLivestream, approved.ClassType)

	_, err = repo.Transition(ctx, "1", models.RequestStatusPending, models.RequestStatusDenied, "")
	require.ErrorIs(t, err, ErrStatusMismatch)

	_, err = repo.Transition(ctx, "9", models.RequestStatusPending, models.RequestStatusDenied, "")
	require.ErrorIs(t, err, ErrNotFound)

	count, err := repo.TransitionAll(ctx, models.RequestStatusPending, models.RequestStatusApproved, models.ClassTypeGroupClass)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	removed, err := repo.DeleteByStatus(ctx, models.RequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	rest, err := repo.List(ctx, models.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestRequestRepositoryDeleteKeepsIndexConsistent(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		require.NoError(t, repo.Create(ctx, newRequest(fmt.Sprint(i), "vtp-math-6", "user")))
	}
	_, err := repo.Transition(ctx, "2", models.RequestStatusPending, models.RequestStatusApproved, models.ClassTypeGroupClass)
	require.NoError(t, err)

	removed, err := repo.DeleteByStatus(ctx, models.RequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := repo.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "4", got.ID)
	_, err = repo.Get(ctx, "2")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRequestRepositoryConcurrentCreate(t *testing.T) {
	repo := NewRequestRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, newRequest(fmt.Sprint(i), "vtp-math-6", "user"))
		}(i)
	}
	wg.Wait()

	all, err := repo.List(ctx, models.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
