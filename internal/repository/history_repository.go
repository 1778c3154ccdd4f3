package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/noah-isme/class-creator-api/internal/models"
)

// HistoryColumns is the column order of the daily request history files.
var HistoryColumns = []string{
	"id",
	"slug",
	"meeting_days",
	"start_date",
	"end_date",
	"start_time",
	"excluded_meeting_dates",
	"requested_by",
	"request_date",
	"status",
	"class_type",
}

// historyKeyColumns identify the same class across exports.
var historyKeyColumns = []string{"slug", "meeting_days", "start_date", "end_date", "start_time"}

type historyStore interface {
	Open(filename string) (*os.File, error)
	Replace(filename string, data []byte) (string, error)
}

// HistoryRepository appends exported requests to one CSV file per day.
type HistoryRepository struct {
	store historyStore
}

// NewHistoryRepository constructs a repository writing through store.
func NewHistoryRepository(store historyStore) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// FileName returns the history file name for day.
func (r *HistoryRepository) FileName(day time.Time) string {
	return fmt.Sprintf("class_requests_history_%s.csv", day.Format("20060102"))
}

// Append merges requests into the file for day. Rows sharing slug, meeting
// days, dates and start time collapse to the most recent one.
func (r *HistoryRepository) Append(ctx context.Context, day time.Time, requests []models.ClassRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := r.FileName(day)
	existing, err := r.read(name)
	if err != nil {
		return "", err
	}
	for _, req := range requests {
		existing = append(existing, historyRecord(req))
	}
	merged := dedupeHistory(existing)

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(HistoryColumns); err != nil {
		return "", fmt.Errorf("write history header: %w", err)
	}
	for _, row := range merged {
		record := make([]string, len(HistoryColumns))
		for i, col := range HistoryColumns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write history row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush history: %w", err)
	}
	return r.store.Replace(name, buf.Bytes())
}

// Read returns the rows stored for day.
func (r *HistoryRepository) Read(ctx context.Context, day time.Time) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.read(r.FileName(day))
}

func (r *HistoryRepository) read(name string) ([]map[string]string, error) {
	file, err := r.store.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func historyRecord(req models.ClassRequest) map[string]string {
	return map[string]string{
		"id":                     req.ID,
		"slug":                   req.Slug,
		"meeting_days":           req.JoinedMeetingDays(),
		"start_date":             req.StartDate.String(),
		"end_date":               req.EndDate.String(),
		"start_time":             req.StartTime,
		"excluded_meeting_dates": strings.Join(req.ExcludedMeetingDates, ","),
		"requested_by":           req.RequestedBy,
		"request_date":           req.RequestDate.String(),
		"status":                 string(req.Status),
		"class_type":             string(req.ClassType),
	}
}

// dedupeHistory keeps the last row per key, ordered by that row's position.
func dedupeHistory(rows []map[string]string) []map[string]string {
	last := make(map[string]int, len(rows))
	for i, row := range rows {
		last[historyKey(row)] = i
	}
	result := make([]map[string]string, 0, len(last))
	for i, row := range rows {
		if last[historyKey(row)] == i {
			result = append(result, row)
		}
	}
	return result
}

func historyKey(row map[string]string) string {
	parts := make([]string, len(historyKeyColumns))
	for i, col := range historyKeyColumns {
		parts[i] = row[col]
	}
	return strings.Join(parts, "\x1f")
}
