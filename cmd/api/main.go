// main.go - The entry point and router setup.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nutrilens/nutrilens-api/configs"
	"github.com/nutrilens/nutrilens-api/internal/api"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/storage"
)

func main() {
	// Step 0: Load configuration from environment variables
	configs.LoadConfig()

	// Step 0.5: Set production mode and base logger
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
		common.SetBaseLogger(zerolog.New(os.Stdout).With().Timestamp().Logger())
	} else {
		common.SetBaseLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger())
	}

	// Step 1: Initialize MongoDB connection
	if err := storage.InitMongoDB(); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer storage.CloseMongoDB()

	// Step 1.5: Wire providers, pipeline and catalog client
	if err := api.InitHandlers(); err != nil {
		log.Fatalf("Failed to initialize handlers: %v", err)
	}

	// Step 2: Initialize the Gin router
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	// Add CORS middleware - configure allowed origins for production
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", configs.ALLOWED_ORIGINS)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Root endpoint for SSL verification
	router.GET("/", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "nutrilens-api",
			"version": "1.0.0",
		})
	})

	// Step 3: Define the API routes behind the auth gate
	v1 := router.Group("/api/v1", api.AuthRequired())
	v1.POST("/analyze-meal", api.AnalyzeMealHandler)
	v1.POST("/analyze-face", api.AnalyzeFaceHandler)
	v1.POST("/analyze-body", api.AnalyzeBodyHandler)
	v1.GET("/product/:barcode", api.ProductLookupHandler)

	// Step 4: Setup HTTP server with timeouts
	srv := &http.Server{
		Addr:           ":" + configs.PORT,
		Handler:        router,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   3 * time.Minute, // Allow up to 3 minutes for AI processing
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on :%s", configs.PORT)
		log.Println("API Endpoints:")
		log.Println("  POST /api/v1/analyze-meal")
		log.Println("  POST /api/v1/analyze-face")
		log.Println("  POST /api/v1/analyze-body")
		log.Println("  GET  /api/v1/product/:barcode")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
