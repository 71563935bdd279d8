package repository

import (
	"context"
	"errors"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// IngredientRepository defines ingredient data operations, all scoped to the owning user.
type IngredientRepository interface {
	List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error)
	GetByID(ctx context.Context, userID, id uint) (*models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, userID, id uint) error
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("ingredients.user_id = ?", userID)
	if assignedOnly {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
			Distinct("ingredients.*")
	}

	var ingredients []models.Ingredient
	if err := q.Order("ingredients.name ASC").Find(&ingredients).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, userID, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&ingredient, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Ingredient", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &ingredient, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewValidationError("Ingredient with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Save(ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewValidationError("Ingredient with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ingredientRepository) Delete(ctx context.Context, userID, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.Where("user_id = ?", userID).First(&ingredient, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", ingredient.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.NewNotFoundError("Ingredient", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}
