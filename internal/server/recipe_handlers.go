package server

import (
	"io"
	"path"
	"path/filepath"

	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// recipeListItem is the compact list projection; it deliberately omits the
// description.
type recipeListItem struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Image       string          `json:"image"`
}

// recipeDetail is the full projection returned for a single recipe.
type recipeDetail struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Image       string          `json:"image"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Tags        []nameResponse  `json:"tags"`
	Ingredients []nameResponse  `json:"ingredients"`
}

type nameResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toRecipeListItem(r *models.Recipe) recipeListItem {
	return recipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       mediaURL(r.ImagePath),
	}
}

func toRecipeDetail(r *models.Recipe) recipeDetail {
	tags := make([]nameResponse, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, nameResponse{ID: t.ID, Name: t.Name})
	}
	ingredients := make([]nameResponse, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ingredients = append(ingredients, nameResponse{ID: i.ID, Name: i.Name})
	}
	return recipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Description: r.Description,
		Link:        r.Link,
		Image:       mediaURL(r.ImagePath),
		Thumbnail:   mediaURL(r.ThumbnailPath),
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func mediaURL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return path.Join("/media", filepath.ToSlash(storedPath))
}

// ListRecipes handles GET /api/recipes. The query parameters `tags` and
// `ingredients` are comma-separated ID lists.
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		return respondServiceError(c, err)
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		return respondServiceError(c, err)
	}

	recipes, err := s.recipeService.List(c.Context(), currentUserID(c), repository.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]recipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, toRecipeListItem(&recipes[i]))
	}
	return c.JSON(items)
}

// CreateRecipe handles POST /api/recipes. The new row's owner is always the
// authenticated user; an owner field in the body is ignored.
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req struct {
		Title       string              `json:"title"`
		TimeMinutes int                 `json:"time_minutes"`
		Price       decimal.Decimal     `json:"price"`
		Description string              `json:"description"`
		Link        string              `json:"link"`
		Tags        []service.NameInput `json:"tags"`
		Ingredients []service.NameInput `json:"ingredients"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Create(c.Context(), service.CreateRecipeInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toRecipeDetail(recipe))
}

// GetRecipe handles GET /api/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	recipe, err := s.recipeService.Get(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toRecipeDetail(recipe))
}

// UpdateRecipe handles PUT /api/recipes/:id
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	return s.updateRecipe(c, false)
}

// PatchRecipe handles PATCH /api/recipes/:id
func (s *Server) PatchRecipe(c *fiber.Ctx) error {
	return s.updateRecipe(c, true)
}

func (s *Server) updateRecipe(c *fiber.Ctx, partial bool) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Title       *string              `json:"title"`
		TimeMinutes *int                 `json:"time_minutes"`
		Price       *decimal.Decimal     `json:"price"`
		Description *string              `json:"description"`
		Link        *string              `json:"link"`
		Tags        *[]service.NameInput `json:"tags"`
		Ingredients *[]service.NameInput `json:"ingredients"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.Update(c.Context(), service.UpdateRecipeInput{
		UserID:      currentUserID(c),
		ID:          id,
		Partial:     partial,
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toRecipeDetail(recipe))
}

// DeleteRecipe handles DELETE /api/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.recipeService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadRecipeImage handles POST /api/recipes/:id/upload-image
func (s *Server) UploadRecipeImage(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	recipe, err := s.imageService.UploadRecipeImage(c.Context(), service.UploadRecipeImageInput{
		UserID:      currentUserID(c),
		RecipeID:    id,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return respondServiceError(c, err)
	}

	observability.ImageUploads.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{
		"id":        recipe.ID,
		"image":     mediaURL(recipe.ImagePath),
		"thumbnail": mediaURL(recipe.ThumbnailPath),
	})
}
