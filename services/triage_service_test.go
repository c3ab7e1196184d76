package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adityapachauri0/pan-sub000/models"
)

// failingStore simulates an unavailable persistence layer.
type failingStore struct {
	SubmissionStore
}

func (f *failingStore) Create(ctx context.Context, sub *models.Submission) error {
	return errors.New("store unavailable")
}

func newTriageForTest(store SubmissionStore, geoURL string) *TriageService {
	resolver := NewOriginResolver(NewTTLCache())
	resolver.Services = nil

	geo := NewGeoEnricher()
	geo.BaseURL = geoURL
	return NewTriageService(store, resolver, geo)
}

func TestAcceptEndToEnd(t *testing.T) {
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"Paris","regionName":"Ile-de-France","country":"France"}`))
	}))
	defer geoSrv.Close()

	store := NewMemoryStore()
	triage := newTriageForTest(store, geoSrv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", nil)
	req.RemoteAddr = "203.0.113.44:443"
	req.Header.Set("User-Agent", "integration-test")

	sub, err := triage.Accept(context.Background(), req, TriageInput{
		Name:      "Ada",
		Email:     "ada@example.com",
		Subject:   "Hi",
		Message:   "Hello there, interested in services.",
		UserAgent: "integration-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sub.ID == "" {
		t.Error("expected generated id")
	}
	if sub.Status != models.StatusNew {
		t.Errorf("expected status new, got %q", sub.Status)
	}
	if sub.OriginAddress != "203.0.113.44" {
		t.Errorf("unexpected origin %q", sub.OriginAddress)
	}
	if sub.Location.City != "Paris" || sub.Location.Country != "France" {
		t.Errorf("unexpected location %+v", sub.Location)
	}
	if sub.RepliedAt != nil {
		t.Error("expected replied-at to be unset on intake")
	}

	// Operator marks it contacted.
	updated, err := store.UpdateStatus(context.Background(), sub.ID, models.StatusContacted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.RepliedAt == nil {
		t.Fatal("expected replied-at after contacted transition")
	}

	// And it shows up under the contacted filter, alone.
	result, err := store.Find(context.Background(), ListOptions{Status: models.StatusContacted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || result.Items[0].ID != sub.ID {
		t.Errorf("expected exactly the contacted record, got %+v", result)
	}
}

func TestAcceptGeoFailureDegradesSilently(t *testing.T) {
	store := NewMemoryStore()
	triage := newTriageForTest(store, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", nil)
	req.RemoteAddr = "203.0.113.44:443"

	sub, err := triage.Accept(context.Background(), req, TriageInput{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
	})
	if err != nil {
		t.Fatalf("enrichment failure must not abort intake: %v", err)
	}
	if sub.Location != models.UnknownLocation() {
		t.Errorf("expected unknown placeholder location, got %+v", sub.Location)
	}
}

func TestAcceptLoopbackOriginGetsLocalLocation(t *testing.T) {
	store := NewMemoryStore()
	triage := newTriageForTest(store, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", nil)
	req.RemoteAddr = "127.0.0.1:5000"

	sub, err := triage.Accept(context.Background(), req, TriageInput{
		Name: "Dev", Email: "dev@example.com", Subject: "Local", Message: "Testing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.OriginAddress != "127.0.0.1" {
		t.Errorf("unexpected origin %q", sub.OriginAddress)
	}
	if sub.Location != models.LocalLocation() {
		t.Errorf("expected local placeholder, got %+v", sub.Location)
	}
}

func TestAcceptPersistenceFailureIsFatal(t *testing.T) {
	triage := newTriageForTest(&failingStore{}, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", nil)
	req.RemoteAddr = "203.0.113.44:443"

	if _, err := triage.Accept(context.Background(), req, TriageInput{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
	}); err == nil {
		t.Fatal("expected persistence failure to propagate")
	}
}

func TestAcceptTruncatesOversizedUserAgent(t *testing.T) {
	store := NewMemoryStore()
	triage := newTriageForTest(store, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", nil)
	req.RemoteAddr = "203.0.113.44:443"

	huge := make([]byte, 2048)
	for i := range huge {
		huge[i] = 'a'
	}

	sub, err := triage.Accept(context.Background(), req, TriageInput{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
		UserAgent: string(huge),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sub.UserAgent) != 512 {
		t.Errorf("expected user agent capped at 512, got %d", len(sub.UserAgent))
	}
}
