package dto

import "github.com/noah-isme/class-creator-api/internal/models"

// CreateCourseRequest adds one catalog entry.
type CreateCourseRequest struct {
	Slug  string                    `json:"slug" validate:"required,slug"`
	Entry models.CourseCatalogEntry `json:"entry"`
}

// CourseResponse is a catalog entry with its code.
type CourseResponse struct {
	Slug  string                    `json:"slug"`
	Entry models.CourseCatalogEntry `json:"entry"`
}

// CatalogWriteResponse reports a bulk catalog write.
type CatalogWriteResponse struct {
	Entries int `json:"entries"`
}
