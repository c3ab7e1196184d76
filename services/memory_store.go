package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adityapachauri0/pan-sub000/models"
)

// memoryStore is a mutex-guarded in-memory SubmissionStore. It backs the
// service when no database is configured and doubles as the test store.
type memoryStore struct {
	mu   sync.RWMutex
	subs map[string]models.Submission
}

func NewMemoryStore() SubmissionStore {
	return &memoryStore{subs: make(map[string]models.Submission)}
}

func (s *memoryStore) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.Status == "" {
		sub.Status = models.StatusNew
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = *sub
	return nil
}

func (s *memoryStore) Find(ctx context.Context, opts ListOptions) (ListResult, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	matched := make([]models.Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		if matchesFilter(sub, opts) {
			matched = append(matched, sub)
		}
	}
	s.mu.RUnlock()

	sortSubmissions(matched, opts.SortBy, opts.SortOrder)

	total := int64(len(matched))
	start := (opts.Page - 1) * opts.PageSize
	if start >= len(matched) {
		return ListResult{Items: []models.Submission{}, Total: total}, nil
	}
	end := start + opts.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return ListResult{Items: matched[start:end], Total: total}, nil
}

func matchesFilter(sub models.Submission, opts ListOptions) bool {
	if opts.Status != "" && opts.Status != "all" && sub.Status != opts.Status {
		return false
	}
	if opts.Search != "" {
		term := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(sub.Name), term) &&
			!strings.Contains(strings.ToLower(sub.Email), term) &&
			!strings.Contains(strings.ToLower(sub.Subject), term) {
			return false
		}
	}
	return true
}

func sortSubmissions(subs []models.Submission, sortBy, sortOrder string) {
	less := func(a, b models.Submission) bool {
		switch sortBy {
		case "status":
			return a.Status < b.Status
		case "name":
			return a.Name < b.Name
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(subs[j], subs[i])
		}
		return less(subs[i], subs[j])
	})
}

func (s *memoryStore) CountByStatus(ctx context.Context) (StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts StatusCounts
	for _, sub := range s.subs {
		counts.Total++
		switch sub.Status {
		case models.StatusNew:
			counts.New++
		case models.StatusContacted:
			counts.Contacted++
		case models.StatusConverted:
			counts.Converted++
		}
	}
	return counts, nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, id, status string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}

	sub.Status = status
	if status == models.StatusContacted {
		now := time.Now().UTC()
		sub.RepliedAt = &now
	}
	s.subs[id] = sub
	return &sub, nil
}

func (s *memoryStore) UpdateNotes(ctx context.Context, id, notes string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}

	sub.Notes = notes
	s.subs[id] = sub
	return &sub, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[id]; !ok {
		return ErrSubmissionNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *memoryStore) All(ctx context.Context) ([]models.Submission, error) {
	s.mu.RLock()
	items := make([]models.Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		items = append(items, sub)
	}
	s.mu.RUnlock()

	sortSubmissions(items, "created_at", "desc")
	return items, nil
}
