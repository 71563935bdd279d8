package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// TagService implements tag CRUD for the authenticated owner.
type TagService struct {
	tags repository.TagRepository
}

// NewTagService creates a new tag service.
func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error) {
	return s.tags.List(ctx, userID, assignedOnly)
}

func (s *TagService) Create(ctx context.Context, userID uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	tag := &models.Tag{UserID: userID, Name: name}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Rename(ctx context.Context, userID, id uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	tag, err := s.tags.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, userID, id uint) error {
	return s.tags.Delete(ctx, userID, id)
}
