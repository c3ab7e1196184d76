package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityapachauri0/pan-sub000/models"
)

// gormStore is the production SubmissionStore backed by GORM/MySQL.
type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) SubmissionStore {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.Status == "" {
		sub.Status = models.StatusNew
	}
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *gormStore) Find(ctx context.Context, opts ListOptions) (ListResult, error) {
	opts = opts.Normalize()

	query := s.db.WithContext(ctx).Model(&models.Submission{})

	if opts.Status != "" && opts.Status != "all" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Search != "" {
		searchTerm := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	offset := (opts.Page - 1) * opts.PageSize
	orderClause := opts.SortBy + " " + strings.ToUpper(opts.SortOrder)

	var items []models.Submission
	if err := query.Order(orderClause).Offset(offset).Limit(opts.PageSize).Find(&items).Error; err != nil {
		return ListResult{}, err
	}

	return ListResult{Items: items, Total: total}, nil
}

func (s *gormStore) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts

	base := s.db.WithContext(ctx).Model(&models.Submission{})
	if err := base.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.StatusNew).Count(&counts.New).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.StatusContacted).Count(&counts.Contacted).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.StatusConverted).Count(&counts.Converted).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (s *gormStore) UpdateStatus(ctx context.Context, id, status string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.WithContext(ctx).First(&sub, "submission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	sub.Status = status
	if status == models.StatusContacted {
		now := time.Now().UTC()
		sub.RepliedAt = &now
	}

	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) UpdateNotes(ctx context.Context, id, notes string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.WithContext(ctx).First(&sub, "submission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	sub.Notes = notes
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Submission{}, "submission_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (s *gormStore) All(ctx context.Context) ([]models.Submission, error) {
	var items []models.Submission
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
