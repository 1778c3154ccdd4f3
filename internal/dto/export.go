package dto

import "time"

// ExportResponse describes a generated bulk upload file.
type ExportResponse struct {
	FileName      string    `json:"file_name"`
	Rows          int       `json:"rows"`
	WebinarRows   int       `json:"webinar_rows"`
	DegradedCount int       `json:"degraded_fields"`
	HistoryFile   string    `json:"history_file,omitempty"`
	DownloadURL   string    `json:"download_url"`
	ExpiresAt     time.Time `json:"expires_at"`
}
