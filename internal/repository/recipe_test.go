package repository

import (
	"context"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Tag{},
		&models.Ingredient{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hashed", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRecipeRepositoryCreateResolvesNames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "u1@e.com")

	first := &models.Recipe{UserID: user.ID, Title: "First"}
	require.NoError(t, repo.Create(ctx, first, []string{"Vegan", "Quick"}, []string{"Tofu"}))
	assert.Len(t, first.Tags, 2)
	assert.Len(t, first.Ingredients, 1)

	// Reusing a name attaches the existing row instead of inserting a twin.
	second := &models.Recipe{UserID: user.ID, Title: "Second"}
	require.NoError(t, repo.Create(ctx, second, []string{"Vegan"}, nil))

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)
}

func TestRecipeRepositoryListFilterDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "u2@e.com")

	// One recipe carrying both filter tags must come back exactly once.
	recipe := &models.Recipe{UserID: user.ID, Title: "Double Match"}
	require.NoError(t, repo.Create(ctx, recipe, []string{"Vegan", "Dinner"}, nil))

	var tags []models.Tag
	require.NoError(t, db.Find(&tags).Error)
	require.Len(t, tags, 2)

	listed, err := repo.List(ctx, user.ID, RecipeFilter{TagIDs: []uint{tags[0].ID, tags[1].ID}})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Double Match", listed[0].Title)
}

func TestRecipeRepositoryListCombinesFilterDimensions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "u3@e.com")

	both := &models.Recipe{UserID: user.ID, Title: "Both"}
	require.NoError(t, repo.Create(ctx, both, []string{"Vegan"}, []string{"Tofu"}))

	tagOnly := &models.Recipe{UserID: user.ID, Title: "Tag Only"}
	require.NoError(t, repo.Create(ctx, tagOnly, []string{"Vegan"}, nil))

	var tag models.Tag
	require.NoError(t, db.Where("name = ?", "Vegan").First(&tag).Error)
	var ing models.Ingredient
	require.NoError(t, db.Where("name = ?", "Tofu").First(&ing).Error)

	// Tag and ingredient filters are ANDed together.
	listed, err := repo.List(ctx, user.ID, RecipeFilter{
		TagIDs:        []uint{tag.ID},
		IngredientIDs: []uint{ing.ID},
	})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Both", listed[0].Title)
}

func TestRecipeRepositoryOwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@e.com")
	stranger := createTestUser(t, db, "stranger@e.com")

	recipe := &models.Recipe{UserID: owner.ID, Title: "Private"}
	require.NoError(t, repo.Create(ctx, recipe, nil, nil))

	_, err := repo.GetByID(ctx, stranger.ID, recipe.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	_, err = repo.Delete(ctx, stranger.ID, recipe.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// Still there for the owner.
	got, err := repo.GetByID(ctx, owner.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestRecipeRepositoryUpdateReplacesAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "u4@e.com")

	recipe := &models.Recipe{UserID: user.ID, Title: "Mutable"}
	require.NoError(t, repo.Create(ctx, recipe, []string{"Old"}, nil))

	newTags := []string{"New A", "New B"}
	require.NoError(t, repo.Update(ctx, recipe, &newTags, nil))
	assert.Len(t, recipe.Tags, 2)

	empty := []string{}
	require.NoError(t, repo.Update(ctx, recipe, &empty, nil))
	assert.Empty(t, recipe.Tags)

	var joinRows int64
	require.NoError(t, db.Table("recipe_tags").Count(&joinRows).Error)
	assert.Zero(t, joinRows)

	// The detached rows themselves survive.
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(3), tagCount)
}

func TestRecipeRepositoryDeleteClearsJoinRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "u5@e.com")

	recipe := &models.Recipe{UserID: user.ID, Title: "Doomed"}
	require.NoError(t, repo.Create(ctx, recipe, []string{"Tagged"}, []string{"Salt"}))

	deleted, err := repo.Delete(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, deleted.ID)

	var joinRows int64
	require.NoError(t, db.Table("recipe_tags").Count(&joinRows).Error)
	assert.Zero(t, joinRows)
	require.NoError(t, db.Table("recipe_ingredients").Count(&joinRows).Error)
	assert.Zero(t, joinRows)
}
