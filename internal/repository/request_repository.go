package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/class-creator-api/internal/models"
)

// RequestRepository is the in-process class request table. Records keep
// insertion order; callers always receive copies.
type RequestRepository struct {
	mu    sync.RWMutex
	items []*models.ClassRequest
	index map[string]int
}

// NewRequestRepository constructs an empty table.
func NewRequestRepository() *RequestRepository {
	return &RequestRepository{index: make(map[string]int)}
}

// Create appends req.
func (r *RequestRepository) Create(ctx context.Context, req *models.ClassRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[req.ID]; exists {
		return ErrDuplicate
	}
	r.index[req.ID] = len(r.items)
	r.items = append(r.items, cloneRequest(req))
	return nil
}

// Get returns the request with id.
func (r *RequestRepository) Get(ctx context.Context, id string) (*models.ClassRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRequest(r.items[pos]), nil
}

// List returns the requests matching filter in insertion order.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.ClassRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]models.ClassRequest, 0, len(r.items))
	for _, item := range r.items {
		if filter.Matches(item) {
			result = append(result, *cloneRequest(item))
		}
	}
	return result, nil
}

// Transition moves one request from status from to status to. The class
// type is only written when non-empty.
func (r *RequestRepository) Transition(ctx context.Context, id string, from, to models.RequestStatus, classType models.ClassType) (*models.ClassRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	item := r.items[pos]
	if item.Status != from {
		return cloneRequest(item), ErrStatusMismatch
	}
	item.Status = to
	if classType != "" {
		item.ClassType = classType
	}
	return cloneRequest(item), nil
}

// TransitionAll moves every request in status from to status to and returns
// how many changed.
func (r *RequestRepository) TransitionAll(ctx context.Context, from, to models.RequestStatus, classType models.ClassType) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for _, item := range r.items {
		if item.Status != from {
			continue
		}
		item.Status = to
		if classType != "" {
			item.ClassType = classType
		}
		changed++
	}
	return changed, nil
}

// DeleteByStatus removes every request in status and returns how many were removed.
func (r *RequestRepository) DeleteByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	removed := 0
	for _, item := range r.items {
		if item.Status == status {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	for i := len(kept); i < len(r.items); i++ {
		r.items[i] = nil
	}
	r.items = kept
	r.index = make(map[string]int, len(kept))
	for i, item := range kept {
		r.index[item.ID] = i
	}
	return removed, nil
}

func cloneRequest(req *models.ClassRequest) *models.ClassRequest {
	if req == nil {
		return nil
	}
	clone := *req
	clone.MeetingDays = append([]string(nil), req.MeetingDays...)
	clone.ExcludedMeetingDates = append([]string(nil), req.ExcludedMeetingDates...)
	return &clone
}
