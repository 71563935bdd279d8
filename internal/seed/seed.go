// Package seed provides database seeding utilities for development and
// testing. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"recipebox/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	RecipesPerUser int
	ShouldClean    bool
}

// DefaultPassword is the password assigned to every seeded user.
const DefaultPassword = "password123"

var (
	tagNames = []string{
		"Vegan", "Vegetarian", "Dessert", "Breakfast", "Lunch", "Dinner",
		"Quick", "Comfort Food", "Healthy", "Spicy", "Gluten Free", "Baking",
		"Grill", "Soup", "Salad", "Snack", "Holiday", "Budget",
	}

	ingredientNames = []string{
		"Salt", "Pepper", "Olive Oil", "Garlic", "Onion", "Butter", "Flour",
		"Sugar", "Eggs", "Milk", "Tomato", "Basil", "Chicken", "Beef", "Rice",
		"Pasta", "Cheese", "Lemon", "Ginger", "Chili", "Carrot", "Potato",
		"Mushroom", "Spinach", "Cream", "Honey", "Cinnamon", "Paprika",
	}

	dishStyles = []string{
		"Roasted", "Grilled", "Slow-Cooked", "Pan-Fried", "Baked", "Steamed",
		"Smoked", "Classic", "Rustic", "Creamy", "Spicy", "Crispy",
	}
)

// Seeder populates the database with demo data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run populates the database according to opts.
func (s *Seeder) Run(opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d recipes each...",
		opts.NumUsers, opts.RecipesPerUser)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	total := 0
	for _, user := range users {
		for i := 0; i < opts.RecipesPerUser; i++ {
			if _, err := s.CreateRecipe(user); err != nil {
				return fmt.Errorf("failed to create recipe for user %d: %w", user.ID, err)
			}
			total++
		}
	}
	log.Printf("✓ %d recipes created", total)

	return nil
}

// ClearAll removes all seeded rows. Join tables go first to satisfy
// foreign keys.
func (s *Seeder) ClearAll() error {
	statements := []string{
		"DELETE FROM recipe_tags",
		"DELETE FROM recipe_ingredients",
		"DELETE FROM recipes",
		"DELETE FROM tags",
		"DELETE FROM ingredients",
		"DELETE FROM refresh_tokens",
		"DELETE FROM users",
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clear failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// CreateUsers constructs and persists n sample users. Every user gets the
// same known password so seeded accounts are usable for manual testing.
func (s *Seeder) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:    strings.ToLower(gofakeit.Email()),
			Password: string(hashed),
			Name:     gofakeit.Name(),
			IsActive: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreateRecipe constructs and persists a sample recipe for the given user,
// with a few owned tags and ingredients attached. Optional override
// functions may modify the generated recipe before saving.
func (s *Seeder) CreateRecipe(user *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	style := dishStyles[s.rand.Intn(len(dishStyles))]
	recipe := &models.Recipe{
		UserID:      user.ID,
		Title:       fmt.Sprintf("%s %s", style, gofakeit.Dinner()),
		TimeMinutes: s.rand.Intn(115) + 5,
		Price:       decimal.NewFromFloat(float64(s.rand.Intn(9500)+500) / 100),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Link:        gofakeit.URL(),
	}

	for _, override := range overrides {
		override(recipe)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, name := range s.pickNames(tagNames, 3) {
			var tag models.Tag
			if err := tx.Where(models.Tag{UserID: user.ID, Name: name}).
				FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			recipe.Tags = append(recipe.Tags, tag)
		}
		for _, name := range s.pickNames(ingredientNames, 5) {
			var ing models.Ingredient
			if err := tx.Where(models.Ingredient{UserID: user.ID, Name: name}).
				FirstOrCreate(&ing).Error; err != nil {
				return err
			}
			recipe.Ingredients = append(recipe.Ingredients, ing)
		}
		return tx.Create(recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// pickNames returns up to max distinct names chosen at random from pool.
func (s *Seeder) pickNames(pool []string, max int) []string {
	n := s.rand.Intn(max) + 1
	perm := s.rand.Perm(len(pool))
	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}
