package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harshitsaini01/incentum-main-sub000/config"
	"github.com/harshitsaini01/incentum-main-sub000/database"
	"github.com/harshitsaini01/incentum-main-sub000/handlers"
	"github.com/harshitsaini01/incentum-main-sub000/middleware"
	"github.com/harshitsaini01/incentum-main-sub000/routes"
	"github.com/harshitsaini01/incentum-main-sub000/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	config.LoadConfig()

	// Database connection
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	handlers.InitCollections()

	storageLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize storage logger: %v", err)
	}
	defer storageLogger.Sync()
	handlers.InitStorage(storage.NewLocalFileStorage(config.UploadDir, storageLogger))

	// Router setup
	router := mux.NewRouter()
	routes.RegisterRoutes(router)

	// Global middlewares (order matters!)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Incentum backend running on http://localhost:%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	database.Disconnect()
	log.Println("Server stopped gracefully")
}
