package seed

import (
	"testing"

	"recipebox/internal/database"
	"recipebox/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	if err := s.Run(Options{NumUsers: 3, RecipesPerUser: 2, ShouldClean: true}); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	var userCount, recipeCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 3 {
		t.Fatalf("expected 3 users, got %d", userCount)
	}
	if err := db.Model(&models.Recipe{}).Count(&recipeCount).Error; err != nil {
		t.Fatalf("count recipes: %v", err)
	}
	if recipeCount != 6 {
		t.Fatalf("expected 6 recipes, got %d", recipeCount)
	}

	// Every recipe belongs to a real user and carries associations.
	var recipes []models.Recipe
	if err := db.Preload("Tags").Preload("Ingredients").Find(&recipes).Error; err != nil {
		t.Fatalf("load recipes: %v", err)
	}
	for _, r := range recipes {
		if r.UserID == 0 {
			t.Fatalf("recipe %d has no owner", r.ID)
		}
		if len(r.Tags) == 0 || len(r.Ingredients) == 0 {
			t.Fatalf("recipe %d missing associations", r.ID)
		}
	}
}

func TestSeededUsersHaveKnownPassword(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(2)
	if err != nil {
		t.Fatalf("create users: %v", err)
	}

	for _, u := range users {
		if !u.IsActive {
			t.Fatalf("user %d not active", u.ID)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)); err != nil {
			t.Fatalf("user %d password mismatch: %v", u.ID, err)
		}
	}
}

func TestClearAllIsRerunnable(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	if err := s.Run(Options{NumUsers: 1, RecipesPerUser: 1}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := s.Run(Options{NumUsers: 2, RecipesPerUser: 1, ShouldClean: true}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 2 {
		t.Fatalf("expected clean rerun to leave 2 users, got %d", userCount)
	}
}
