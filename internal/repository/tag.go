package repository

import (
	"context"
	"errors"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines tag data operations, all scoped to the owning user.
type TagRepository interface {
	List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error)
	GetByID(ctx context.Context, userID, id uint) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, userID, id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error) {
	q := r.db.WithContext(ctx).Model(&models.Tag{}).Where("tags.user_id = ?", userID)
	if assignedOnly {
		// A tag on several recipes appears once in the result.
		q = q.Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").Distinct("tags.*")
	}

	var tags []models.Tag
	if err := q.Order("tags.name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, userID, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&tag, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Tag", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewValidationError("Tag with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Save(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewValidationError("Tag with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, userID, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.Where("user_id = ?", userID).First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.NewNotFoundError("Tag", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}
