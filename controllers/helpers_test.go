package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/adityapachauri0/pan-sub000/models"
	"github.com/adityapachauri0/pan-sub000/services"
)

// newTestRouter wires the handlers against an in-memory store, bypassing the
// auth middleware (identity is the auth collaborator's concern, not ours).
func newTestRouter(t *testing.T) (*gin.Engine, services.SubmissionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	memStore := services.NewMemoryStore()

	resolver := services.NewOriginResolver(services.NewTTLCache())
	resolver.Services = nil
	geo := services.NewGeoEnricher()
	geo.BaseURL = "http://127.0.0.1:1" // unreachable: enrichment degrades

	Setup(memStore, services.NewTriageService(memStore, resolver, geo), services.NewExportService(memStore))

	router := gin.New()
	router.POST("/api/v1/submissions", CreateSubmission)
	router.GET("/api/v1/submissions", GetSubmissions)
	router.GET("/api/v1/submissions/stats", GetSubmissionStats)
	router.GET("/api/v1/submissions/export", ExportSubmissions)
	router.POST("/api/v1/submissions/export", ExportSelectedSubmissions)
	router.PATCH("/api/v1/submissions/bulk/status", BulkUpdateSubmissionStatus)
	router.POST("/api/v1/submissions/bulk/delete", BulkDeleteSubmissions)
	router.PATCH("/api/v1/submissions/:id/status", UpdateSubmissionStatus)
	router.PATCH("/api/v1/submissions/:id/notes", UpdateSubmissionNotes)
	router.DELETE("/api/v1/submissions/:id", DeleteSubmission)
	return router, memStore
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.77:443"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func seedSubmissions(t *testing.T, store services.SubmissionStore, subs ...*models.Submission) {
	t.Helper()
	for _, sub := range subs {
		if err := store.Create(context.Background(), sub); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}
}
