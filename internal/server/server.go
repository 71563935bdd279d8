// Package server contains the HTTP handlers and routing for the recipe API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	recipeRepo       repository.RecipeRepository
	tagRepo          repository.TagRepository
	ingredientRepo   repository.IngredientRepository

	authService       *service.AuthService
	recipeService     *service.RecipeService
	tagService        *service.TagService
	ingredientService *service.IngredientService
	imageService      *service.ImageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := connectRedis(ctx, cfg.RedisURL)

	s := NewServerWithDeps(cfg, db, redisClient)
	s.promMiddleware = fiberprometheus.New("recipebox-api")
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)

	imageService := service.NewImageService(recipeRepo, cfg)

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		recipeRepo:       recipeRepo,
		tagRepo:          tagRepo,
		ingredientRepo:   ingredientRepo,

		authService:       service.NewAuthService(userRepo, refreshTokenRepo, cfg),
		recipeService:     service.NewRecipeService(recipeRepo, imageService),
		tagService:        service.NewTagService(tagRepo),
		ingredientService: service.NewIngredientService(ingredientRepo),
		imageService:      imageService,
	}
	return s
}

func connectRedis(ctx context.Context, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without rate limiting",
			slog.String("error", err.Error()))
		return nil
	}
	middleware.Logger.Info("Redis connected successfully")
	return client
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Stored recipe images
	app.Static("/media", s.imageService.MediaDir())

	api := app.Group("/api")

	// Public auth surface
	api.Post("/users", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.RegisterUser)
	api.Post("/token", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.CreateToken)
	api.Post("/token/refresh", s.RefreshToken)
	api.Post("/token/revoke", s.RevokeToken)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Get("/me", s.GetMe)
	protected.Patch("/me", s.UpdateMe)

	recipes := protected.Group("/recipes")
	recipes.Get("/", s.ListRecipes)
	recipes.Post("/", s.CreateRecipe)
	recipes.Post("/:id/upload-image", s.UploadRecipeImage)
	recipes.Get("/:id", s.GetRecipe)
	recipes.Put("/:id", s.UpdateRecipe)
	recipes.Patch("/:id", s.PatchRecipe)
	recipes.Delete("/:id", s.DeleteRecipe)

	tags := protected.Group("/tags")
	tags.Get("/", s.ListTags)
	tags.Post("/", s.CreateTag)
	tags.Put("/:id", s.UpdateTag)
	tags.Patch("/:id", s.UpdateTag)
	tags.Delete("/:id", s.DeleteTag)

	ingredients := protected.Group("/ingredients")
	ingredients.Get("/", s.ListIngredients)
	ingredients.Post("/", s.CreateIngredient)
	ingredients.Put("/:id", s.UpdateIngredient)
	ingredients.Patch("/:id", s.UpdateIngredient)
	ingredients.Delete("/:id", s.DeleteIngredient)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck reports whether the database (and Redis, when configured)
// are reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Only access tokens are
// accepted; a refresh token presented as a bearer credential is rejected.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.authService.ParseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		if tokenType, _ := claims["token_type"].(string); tokenType != service.TokenTypeAccess {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not an access token"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		return c.Next()
	}
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
