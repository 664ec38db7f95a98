package main

import (
	"log"
	"os"

	"github.com/01moynul/resellerhub-golang/internal/database"
	"github.com/01moynul/resellerhub-golang/internal/handlers"
	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/01moynul/resellerhub-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Schema + Seed Data ---
	// Both are idempotent, so restarting against an existing file is safe.
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// 3. --- Application Setup ---
	app := &handlers.Handlers{
		DB:  db,
		Hub: realtime.NewHub(),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting ResellerHub API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
