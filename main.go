package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unitestats/internal/config"
	"unitestats/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.HasDatabase() {
		db, err := container.ConnectDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
		if err := appContainer.Migrate(context.Background()); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
	} else {
		log.Println("No DATABASE_URL configured, stored aggregates disabled")
	}

	server, err := appContainer.NewServer()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Warm the catalog so the first query does not pay for the fetch
	go func() {
		if _, err := appContainer.CatalogCache.Catalog(context.Background()); err != nil {
			log.Printf("Catalog warm-up failed, will retry on first query: %v", err)
		}
	}()

	go func() {
		if err := server.Start(":" + appConfig.Server.Port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
