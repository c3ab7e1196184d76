// controllers/dashboard.go - Operator-facing query and action surface
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adityapachauri0/pan-sub000/models"
	"github.com/adityapachauri0/pan-sub000/services"
	"github.com/adityapachauri0/pan-sub000/utils"
)

// ===================== LISTING =====================

// GetSubmissions returns a paginated list of submissions with filters.
// GET /api/v1/submissions?status=&search=&page=&limit=
func GetSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.DefaultQuery("status", "all")
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	if status != "all" && !models.IsStatusValid(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	opts := services.ListOptions{
		Status:    status,
		Search:    search,
		Page:      page,
		PageSize:  limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}.Normalize()

	result, err := store.Find(c.Request.Context(), opts)
	if err != nil {
		log.Printf("Failed to fetch submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	stats, err := store.CountByStatus(c.Request.Context())
	if err != nil {
		log.Printf("Failed to count submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	now := time.Now()
	for i := range result.Items {
		result.Items[i].TimeAgo = utils.TimeAgo(result.Items[i].CreatedAt, now)
	}

	totalPages := (result.Total + int64(opts.PageSize) - 1) / int64(opts.PageSize)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": result.Items,
		"total":       result.Total,
		"pages":       totalPages,
		"currentPage": opts.Page,
		"stats":       stats,
	})
}

// GetSubmissionStats returns the aggregate counts for the summary tiles.
// GET /api/v1/submissions/stats
func GetSubmissionStats(c *gin.Context) {
	stats, err := store.CountByStatus(c.Request.Context())
	if err != nil {
		log.Printf("Failed to count submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// ===================== SINGLE ACTIONS =====================

// UpdateSubmissionStatus moves a submission through the triage workflow.
// PATCH /api/v1/submissions/:id/status
func UpdateSubmissionStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !models.IsStatusValid(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	sub, err := store.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		log.Printf("Failed to update submission %s status: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

// UpdateSubmissionNotes replaces the operator notes on a submission.
// PATCH /api/v1/submissions/:id/notes
func UpdateSubmissionNotes(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Notes) > utils.MaxNotesLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notes are too long"})
		return
	}

	sub, err := store.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		log.Printf("Failed to update submission %s notes: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

// DeleteSubmission removes a single submission.
// DELETE /api/v1/submissions/:id
func DeleteSubmission(c *gin.Context) {
	id := c.Param("id")

	if err := store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		log.Printf("Failed to delete submission %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted successfully"})
}

// ===================== BULK ACTIONS =====================

type bulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// runBulk applies op to each id concurrently and collects a partial-failure
// manifest. One failing id never aborts the others.
func runBulk(ids []string, op func(id string) error) (succeeded []string, failed []bulkFailure) {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	succeeded = make([]string, 0, len(ids))
	failed = make([]bulkFailure, 0)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := op(id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, bulkFailure{ID: id, Error: err.Error()})
				return
			}
			succeeded = append(succeeded, id)
		}(id)
	}
	wg.Wait()
	return succeeded, failed
}

// BulkUpdateSubmissionStatus changes the status of each listed submission
// independently and reports which ids failed.
// PATCH /api/v1/submissions/bulk/status
func BulkUpdateSubmissionStatus(c *gin.Context) {
	var req struct {
		IDs    []string `json:"ids" binding:"required"`
		Status string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No submission ids provided"})
		return
	}
	if !models.IsStatusValid(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	ctx := c.Request.Context()
	succeeded, failed := runBulk(req.IDs, func(id string) error {
		_, err := store.UpdateStatus(ctx, id, req.Status)
		return err
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"succeeded": succeeded,
		"failed":    failed,
	})
}

// BulkDeleteSubmissions deletes each listed submission independently.
// Completed deletions are never rolled back when a sibling id fails.
// POST /api/v1/submissions/bulk/delete
func BulkDeleteSubmissions(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No submission ids provided"})
		return
	}

	ctx := c.Request.Context()
	succeeded, failed := runBulk(req.IDs, func(id string) error {
		return store.Delete(ctx, id)
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"succeeded": succeeded,
		"failed":    failed,
	})
}

// ===================== EXPORT =====================

// ExportSubmissions streams every submission as a CSV attachment.
// GET /api/v1/submissions/export
func ExportSubmissions(c *gin.Context) {
	data, err := exporter.ExportAll(c.Request.Context())
	if err != nil {
		log.Printf("Failed to export submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export submissions"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="submissions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportSelectedSubmissions streams only the requested ids as CSV.
// POST /api/v1/submissions/export
func ExportSelectedSubmissions(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No submission ids provided"})
		return
	}

	data, err := exporter.ExportSelected(c.Request.Context(), req.IDs)
	if err != nil {
		log.Printf("Failed to export submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export submissions"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="submissions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
