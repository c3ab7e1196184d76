package services

import (
	"context"
	"errors"

	"github.com/adityapachauri0/pan-sub000/models"
)

// ErrSubmissionNotFound is returned by store operations on unknown ids.
var ErrSubmissionNotFound = errors.New("submission not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListOptions filters and pages a submission query. Status "" or "all" means
// no status filter; Search matches name, email, and subject case-insensitively
// with OR semantics.
type ListOptions struct {
	Status    string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// allowedSortFields whitelists sortable columns.
var allowedSortFields = map[string]bool{
	"created_at": true,
	"status":     true,
	"name":       true,
}

// Normalize applies pagination bounds and sort defaults. Stores call it
// before querying; handlers reuse the same result to build the response
// envelope so the reported page and size always match the returned page.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 || o.PageSize > maxPageSize {
		o.PageSize = defaultPageSize
	}
	if !allowedSortFields[o.SortBy] {
		o.SortBy = "created_at"
	}
	if o.SortOrder != "asc" && o.SortOrder != "desc" {
		o.SortOrder = "desc"
	}
	return o
}

// ListResult is a page of submissions plus the total matching count.
type ListResult struct {
	Items []models.Submission
	Total int64
}

// StatusCounts feeds the dashboard summary tiles.
type StatusCounts struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Contacted int64 `json:"contacted"`
	Converted int64 `json:"converted"`
}

// SubmissionStore is the durable storage surface for submissions. The
// persistence engine is abstracted behind it; per-record atomicity is the
// only consistency guarantee bulk callers rely on.
type SubmissionStore interface {
	// Create assigns the id and created-at timestamp if absent and persists.
	Create(ctx context.Context, sub *models.Submission) error

	// Find returns a filtered, sorted page plus the total matching count.
	Find(ctx context.Context, opts ListOptions) (ListResult, error)

	// CountByStatus returns aggregate counts for the dashboard tiles.
	CountByStatus(ctx context.Context) (StatusCounts, error)

	// UpdateStatus sets the status; a transition into "contacted" also
	// refreshes the replied-at timestamp.
	UpdateStatus(ctx context.Context, id, status string) (*models.Submission, error)

	// UpdateNotes replaces the operator notes.
	UpdateNotes(ctx context.Context, id, notes string) (*models.Submission, error)

	// Delete removes the record.
	Delete(ctx context.Context, id string) error

	// All returns the full unpaginated set, newest first. Export only.
	All(ctx context.Context) ([]models.Submission, error)
}
