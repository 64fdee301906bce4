package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tessera-app/api-go/config"
	"github.com/tessera-app/api-go/fixtures"
	"github.com/tessera-app/api-go/routes"
	"github.com/tessera-app/api-go/scheduler"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize database
	db := config.InitDB()

	// Optional redis cache for selfie-status polling
	redisClient, err := config.InitRedis()
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
	}

	// Demo deployments start from a generated data set
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		store := fixtures.NewStore()
		store.Init(10)
		if err := store.Seed(db); err != nil {
			log.Printf("Demo data seeding failed: %v", err)
		}
	}

	// Stale pending selfies are swept every hour
	cleanup := scheduler.StartSelfieCleanup(db, time.Hour)
	defer cleanup.Stop()

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, db, redisClient)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Tessera API on port %s", port)
	r.Run(":" + port)
}
