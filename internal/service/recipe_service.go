package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/shopspring/decimal"
)

// NameInput is a nested tag or ingredient reference by name.
type NameInput struct {
	Name string `json:"name"`
}

// CreateRecipeInput carries a recipe creation request. The owner is always
// the authenticated user; there is no way to create for someone else.
type CreateRecipeInput struct {
	UserID      uint
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        []NameInput
	Ingredients []NameInput
}

// UpdateRecipeInput carries a full or partial update. Nil fields are left
// untouched on a partial update; a full update requires title, minutes and
// price. Non-nil Tags/Ingredients replace the whole association set.
type UpdateRecipeInput struct {
	UserID      uint
	ID          uint
	Partial     bool
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]NameInput
	Ingredients *[]NameInput
}

// RecipeService implements recipe CRUD on top of the owner-scoped repository.
type RecipeService struct {
	recipes repository.RecipeRepository
	images  *ImageService
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(recipes repository.RecipeRepository, images *ImageService) *RecipeService {
	return &RecipeService{recipes: recipes, images: images}
}

// List returns the user's recipes, newest first, optionally filtered by tag
// and ingredient IDs.
func (s *RecipeService) List(ctx context.Context, userID uint, filter repository.RecipeFilter) ([]models.Recipe, error) {
	return s.recipes.List(ctx, userID, filter)
}

// Get returns one of the user's recipes; foreign rows surface as not found.
func (s *RecipeService) Get(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	return s.recipes.GetByID(ctx, userID, id)
}

// Create validates and stores a new recipe with its named tag and ingredient
// associations resolved per owner.
func (s *RecipeService) Create(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.TimeMinutes < 0 {
		return nil, models.NewValidationError("Minutes must not be negative")
	}
	if in.Price.IsNegative() {
		return nil, models.NewValidationError("Price must not be negative")
	}
	tagNames, err := names(in.Tags)
	if err != nil {
		return nil, err
	}
	ingredientNames, err := names(in.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      in.UserID,
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Description: in.Description,
		Link:        in.Link,
	}
	if err := s.recipes.Create(ctx, recipe, tagNames, ingredientNames); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Update applies a full or partial update to one of the user's recipes. Any
// owner field supplied by the caller has already been discarded at the
// handler boundary; the stored owner never changes.
func (s *RecipeService) Update(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	if !in.Partial {
		if in.Title == nil || in.TimeMinutes == nil || in.Price == nil {
			return nil, models.NewValidationError("Title, time_minutes and price are required")
		}
	}

	recipe, err := s.recipes.GetByID(ctx, in.UserID, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title must not be empty")
		}
		recipe.Title = *in.Title
	}
	if in.TimeMinutes != nil {
		if *in.TimeMinutes < 0 {
			return nil, models.NewValidationError("Minutes must not be negative")
		}
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, models.NewValidationError("Price must not be negative")
		}
		recipe.Price = *in.Price
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}

	var tagNames, ingredientNames *[]string
	if in.Tags != nil {
		resolved, err := names(*in.Tags)
		if err != nil {
			return nil, err
		}
		tagNames = &resolved
	}
	if in.Ingredients != nil {
		resolved, err := names(*in.Ingredients)
		if err != nil {
			return nil, err
		}
		ingredientNames = &resolved
	}

	if err := s.recipes.Update(ctx, recipe, tagNames, ingredientNames); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete removes one of the user's recipes and tears down its stored image
// files. File removal is best-effort once the database delete has committed.
func (s *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	recipe, err := s.recipes.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if s.images != nil {
		s.images.RemoveFiles(recipe.ImagePath, recipe.ThumbnailPath)
	}
	return nil
}

func names(inputs []NameInput) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			return nil, models.NewValidationError("Name must not be empty")
		}
		out = append(out, in.Name)
	}
	return out, nil
}
