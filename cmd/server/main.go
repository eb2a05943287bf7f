package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/sajidul-dev/feedline/backend/internal/router"
	"github.com/sajidul-dev/feedline/backend/internal/storage"
	"github.com/sajidul-dev/feedline/backend/pkg/config"
	"github.com/sajidul-dev/feedline/backend/pkg/firebase"
	"github.com/sajidul-dev/feedline/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (image uploads go to Cloud Storage)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	blobStore := storage.NewFirebaseBlobStore(firebaseApp.StorageClient, cfg.FirebaseStorageBucket)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, blobStore, cfg.JWTSecret)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
