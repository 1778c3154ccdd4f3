package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/pkg/storage"
)

func TestHistoryRepositoryAppendDedupes(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewHistoryRepository(store)
	ctx := context.Background()
	day := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	start, _ := models.ParseDate("2024-03-04")
	end, _ := models.ParseDate("2024-03-29")
	base := models.ClassRequest{
		ID:          "a",
		Slug:        "vtp-math-6",
		MeetingDays: []string{"Monday", "Wednesday"},
		StartDate:   start,
		EndDate:     end,
		StartTime:   "15:30",
		RequestedBy: "user",
		Status:      models.RequestStatusApproved,
		ClassType:   models.ClassTypeGroupClass,
	}
	other := base
	other.ID = "b"
	other.Slug = "vtp-math-7"

	name, err := repo.Append(ctx, day, []models.ClassRequest{base, other})
	require.NoError(t, err)
	assert.Equal(t, "class_requests_history_20240305.csv", name)

	again := base
	again.ID = "c"
	again.ClassType = models.ClassTypeLivestream
	_, err = repo.Append(ctx, day, []models.ClassRequest{again})
	require.NoError(t, err)

	rows, err := repo.Read(ctx, day)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0]["id"])
	assert.Equal(t, "c", rows[1]["id"])
	assert.Equal(t, "Livestream", rows[1]["class_type"])
	assert.Equal(t, "Monday,Wednesday", rows[1]["meeting_days"])
}

func TestHistoryRepositoryReadMissingDay(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	rows, err := NewHistoryRepository(store).Read(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
