package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sajidul-dev/feedline/backend/internal/handlers"
	"github.com/sajidul-dev/feedline/backend/internal/middleware"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/repositories"
	"github.com/sajidul-dev/feedline/backend/internal/services"
	"github.com/sajidul-dev/feedline/backend/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, blobStore storage.BlobStore, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories and services ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("feedline"))

	locks := services.NewPostLocks()
	authService := services.NewAuthService(userRepo, jwtSecret)
	postService := services.NewPostService(postRepo, locks)
	commentService := services.NewCommentService(postRepo, locks)

	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService, blobStore)
	commentHandler := handlers.NewCommentHandler(commentService)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	public := e.Group("/api/v1")
	postHandler.RegisterPublicRoutes(public)
	log.Println("Public post routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	authHandler.RegisterProfileRoutes(api)
	postHandler.RegisterPostRoutes(api)
	commentHandler.RegisterCommentRoutes(api)

	log.Println("All routes configured.")
}
