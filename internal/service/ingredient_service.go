package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// IngredientService implements ingredient CRUD for the authenticated owner.
type IngredientService struct {
	ingredients repository.IngredientRepository
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(ingredients repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

func (s *IngredientService) List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx, userID, assignedOnly)
}

func (s *IngredientService) Create(ctx context.Context, userID uint, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	ingredient := &models.Ingredient{UserID: userID, Name: name}
	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *IngredientService) Rename(ctx context.Context, userID, id uint, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	ingredient, err := s.ingredients.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	ingredient.Name = name
	if err := s.ingredients.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *IngredientService) Delete(ctx context.Context, userID, id uint) error {
	return s.ingredients.Delete(ctx, userID, id)
}
