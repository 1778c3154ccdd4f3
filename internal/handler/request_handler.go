package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-creator-api/internal/dto"
	"github.com/noah-isme/class-creator-api/internal/middleware"
	"github.com/noah-isme/class-creator-api/internal/models"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/response"
)

type requestService interface {
	Submit(ctx context.Context, actor string, payload dto.SubmitClassRequests) ([]models.ClassRequest, error)
	List(ctx context.Context, actor string, role models.UserRole, query dto.ClassRequestQuery) ([]models.ClassRequest, error)
	Approve(ctx context.Context, id, classType string) (*models.ClassRequest, error)
	Deny(ctx context.Context, id string) (*models.ClassRequest, error)
	ApproveAll(ctx context.Context, classType string) (int, error)
	DenyAll(ctx context.Context) (int, error)
	ClearApproved(ctx context.Context) (int, error)
	Report(ctx context.Context, actor string, role models.UserRole, query dto.ClassRequestQuery) ([]byte, error)
}

// RequestHandler manages class request endpoints.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler constructs a RequestHandler.
func NewRequestHandler(svc requestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

// Submit godoc
// @Summary Submit class requests
// @Description Creates one pending request per course code
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitClassRequests true "Schedule"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var payload dto.SubmitClassRequests
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class request payload"))
		return
	}
	created, err := h.service.Submit(c.Request.Context(), claims.Username, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SubmitClassRequestsResponse{Created: len(created), Requests: created})
}

// List godoc
// @Summary List class requests
// @Description Admins see every request; requesters see their own
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Approved or Denied"
// @Param requested_by query string false "Submitter (admins only)"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var query dto.ClassRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	requests, err := h.service.List(c.Request.Context(), claims.Username, claims.Role, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(requests))
	response.JSON(c, http.StatusOK, requests, nil, middleware.ExtractMeta(c))
}

// Report godoc
// @Summary Class request report
// @Tags Requests
// @Produce application/pdf
// @Security BearerAuth
// @Param status query string false "Pending, Approved or Denied"
// @Success 200 {file} binary
// @Router /requests/report [get]
func (h *RequestHandler) Report(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var query dto.ClassRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	payload, err := h.service.Report(c.Request.Context(), claims.Username, claims.Role, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("class_requests_%s.pdf", time.Now().UTC().Format("20060102"))
	response.Attachment(c, filename, "application/pdf", payload)
}

// Approve godoc
// @Summary Approve class request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.ApproveClassRequest false "Class type"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	payload, ok := bindApproval(c)
	if !ok {
		return
	}
	updated, err := h.service.Approve(c.Request.Context(), c.Param("id"), payload.ClassType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Deny godoc
// @Summary Deny class request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/deny [post]
func (h *RequestHandler) Deny(c *gin.Context) {
	updated, err := h.service.Deny(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// ApproveAll godoc
// @Summary Approve every pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ApproveClassRequest false "Class type"
// @Success 200 {object} response.Envelope
// @Router /requests/approve-all [post]
func (h *RequestHandler) ApproveAll(c *gin.Context) {
	payload, ok := bindApproval(c)
	if !ok {
		return
	}
	count, err := h.service.ApproveAll(c.Request.Context(), payload.ClassType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkTransitionResponse{Affected: count}, nil)
}

// DenyAll godoc
// @Summary Deny every pending request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /requests/deny-all [post]
func (h *RequestHandler) DenyAll(c *gin.Context) {
	count, err := h.service.DenyAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkTransitionResponse{Affected: count}, nil)
}

// ClearApproved godoc
// @Summary Remove approved requests
// @Description Clears approved requests after they have been exported
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /requests/approved [delete]
func (h *RequestHandler) ClearApproved(c *gin.Context) {
	count, err := h.service.ClearApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkTransitionResponse{Affected: count}, nil)
}

// bindApproval reads an optional approval body. An empty body selects the
// default class type.
func bindApproval(c *gin.Context) (dto.ApproveClassRequest, bool) {
	var payload dto.ApproveClassRequest
	if c.Request.ContentLength == 0 {
		return payload, true
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return payload, false
	}
	return payload, true
}
