package repository

import (
	"context"

	"recipebox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter restricts a recipe listing. IDs within one list are OR-ed;
// supplying both lists ANDs the two dimensions.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines recipe data operations. Multi-step writes
// (get-or-create of named tags/ingredients plus association replacement) run
// inside a single transaction so a failure leaves the prior state intact.
type RecipeRepository interface {
	List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error)
	GetByID(ctx context.Context, userID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames []string) error
	Update(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames *[]string) error
	UpdateImage(ctx context.Context, userID, id uint, imagePath, thumbnailPath string) error
	Delete(ctx context.Context, userID, id uint) (*models.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", userID)

	filtered := false
	if len(filter.TagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
		filtered = true
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
		filtered = true
	}
	if filtered {
		// The joins multiply rows when a recipe matches several filter IDs.
		q = q.Distinct("recipes.*")
	}

	var recipes []models.Recipe
	err := q.Preload("Tags").Preload("Ingredients").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Tags").Preload("Ingredients").
		Where("user_id = ?", userID).
		First(&recipe, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := getOrCreateTags(tx, recipe.UserID, tagNames)
		if err != nil {
			return err
		}
		ingredients, err := getOrCreateIngredients(tx, recipe.UserID, ingredientNames)
		if err != nil {
			return err
		}
		recipe.Tags = tags
		recipe.Ingredients = ingredients
		return tx.Create(recipe).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update saves the recipe's own columns and, when tagNames or ingredientNames
// is non-nil, replaces the full association set (an empty list clears it).
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames *[]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if tagNames != nil {
			tags, err := getOrCreateTags(tx, recipe.UserID, *tagNames)
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, recipe, "Tags", len(tags), &tags); err != nil {
				return err
			}
			recipe.Tags = tags
		}
		if ingredientNames != nil {
			ingredients, err := getOrCreateIngredients(tx, recipe.UserID, *ingredientNames)
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, recipe, "Ingredients", len(ingredients), &ingredients); err != nil {
				return err
			}
			recipe.Ingredients = ingredients
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) UpdateImage(ctx context.Context, userID, id uint, imagePath, thumbnailPath string) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"image_path":     imagePath,
			"thumbnail_path": thumbnailPath,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", id)
	}
	return nil
}

// Delete removes the recipe and its association rows. The deleted recipe is
// returned so the caller can clean up its stored image files.
func (r *recipeRepository) Delete(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

func replaceAssociation(tx *gorm.DB, recipe *models.Recipe, name string, count int, values interface{}) error {
	assoc := tx.Model(recipe).Association(name)
	if count == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

// getOrCreateTags resolves tag names to rows owned by the user, creating any
// that do not exist yet. The (user_id, name) unique index closes the race
// between concurrent identical requests.
func getOrCreateTags(tx *gorm.DB, userID uint, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := tx.Where(models.Tag{UserID: userID, Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func getOrCreateIngredients(tx *gorm.DB, userID uint, names []string) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(names))
	for _, name := range names {
		var ingredient models.Ingredient
		if err := tx.Where(models.Ingredient{UserID: userID, Name: name}).FirstOrCreate(&ingredient).Error; err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}
