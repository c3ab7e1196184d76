package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adityapachauri0/pan-sub000/models"
	"github.com/adityapachauri0/pan-sub000/utils"
)

// TriageInput carries the already-validated intake fields.
type TriageInput struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	UserAgent string
}

// TriageService is the single entry point for new submissions: it resolves
// the network origin, enriches it with location data, and persists the
// record. Resolution and enrichment failures degrade silently; persistence
// failure is the only fatal path.
type TriageService struct {
	store    SubmissionStore
	resolver *OriginResolver
	geo      *GeoEnricher

	// Notify, when set, is called asynchronously after a successful create.
	Notify func(sub *models.Submission)
}

func NewTriageService(store SubmissionStore, resolver *OriginResolver, geo *GeoEnricher) *TriageService {
	return &TriageService{store: store, resolver: resolver, geo: geo}
}

// Accept builds and persists a submission for req, returning the stored
// record including its generated id.
func (s *TriageService) Accept(ctx context.Context, req *http.Request, input TriageInput) (*models.Submission, error) {
	origin := "unknown"
	if req != nil {
		origin = s.resolver.Resolve(req)
	}
	location := s.geo.Enrich(origin)

	userAgent := input.UserAgent
	if len(userAgent) > utils.MaxUserAgentLength {
		userAgent = userAgent[:utils.MaxUserAgentLength]
	}

	sub := &models.Submission{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Email:         input.Email,
		Subject:       input.Subject,
		Message:       input.Message,
		OriginAddress: origin,
		UserAgent:     userAgent,
		Location:      location,
		Status:        models.StatusNew,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}

	if s.Notify != nil {
		go func(copied models.Submission) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Submission notification panicked: %v", r)
				}
			}()
			s.Notify(&copied)
		}(*sub)
	}

	return sub, nil
}
