package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"tripdesk/config"
	"tripdesk/database"
	"tripdesk/handlers"
	"tripdesk/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	cfg := config.Load()

	database.Init(cfg.DatabaseURL)

	flights := services.NewFlightsClient(cfg)
	hotels := services.NewHotelsClient(cfg)
	searcher := services.NewSearcher(flights, hotels)
	recommender := services.NewRecommender(cfg)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("❌ panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Search-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)
	r.POST("/search-flights", handlers.SearchFlights(searcher))
	r.POST("/search-hotels", handlers.SearchHotels(searcher))
	r.POST("/generate-itinerary", handlers.GenerateItinerary(recommender))
	r.GET("/download/:id", handlers.Download)

	log.Printf("🚀 TripDesk backend starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
