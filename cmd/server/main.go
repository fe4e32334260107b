package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lgarzadev/dealercat/internal/auth"
	"github.com/lgarzadev/dealercat/internal/config"
	"github.com/lgarzadev/dealercat/internal/database"
	"github.com/lgarzadev/dealercat/internal/handlers"
	"github.com/lgarzadev/dealercat/internal/render"
	"github.com/lgarzadev/dealercat/internal/repositories"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create postgres pool: %v", err)
	}
	defer postgresPool.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to create redis client: %v", err)
	}
	defer redisClient.Close()

	// Repositories
	accounts := repositories.NewPostgresAccountRepository(postgresPool)
	classifications := repositories.NewPostgresClassificationRepository(postgresPool)
	inventory := repositories.NewPostgresInventoryRepository(postgresPool)
	reviews := repositories.NewPostgresReviewRepository(postgresPool)
	flashStore := repositories.NewRedisFlashStore(redisClient)

	// Session tokens and page plumbing
	secureCookies := !cfg.IsDevelopment()
	tokens := auth.NewTokenService(cfg.SessionSecret, cfg.SessionTTL, secureCookies)
	flash := handlers.NewFlash(flashStore, secureCookies)
	pages := handlers.NewPages(render.NewHTML(), classifications, flash)

	gate := &auth.Gate{
		Tokens:    tokens,
		LoginPath: "/account/login",
		Notify:    flash.Set,
		Forbid:    pages.Forbidden,
	}

	// Handlers
	accountHandler := handlers.NewAccountHandler(pages, accounts, tokens)
	inventoryHandler := handlers.NewInventoryHandler(pages, classifications, inventory, reviews)
	reviewHandler := handlers.NewReviewHandler(pages, reviews, inventoryHandler)

	router := handlers.Routes(gate, pages, accountHandler, inventoryHandler, reviewHandler)

	// Start Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
