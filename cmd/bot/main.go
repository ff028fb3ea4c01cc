package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wordspy/internal/config"
	"wordspy/internal/database"
	"wordspy/internal/handlers"
	"wordspy/internal/repository"
	"wordspy/internal/service"
	"wordspy/internal/telegram"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the starter word catalog
	if err := db.SeedWords(); err != nil {
		log.Printf("Warning: Failed to seed word catalog: %v", err)
	}

	// Connect to Telegram
	bot, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	log.Printf("Authorized as @%s", bot.Username())

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	wordRepo := repository.NewWordRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	catalogService := service.NewCatalogService(wordRepo, rng)
	cleanupService := service.NewCleanupService(messageRepo, bot)
	gameService := service.NewGameService(sessionRepo, catalogService, cleanupService, bot,
		cfg.MasterPassword, cfg.WordsPrompt, cfg.MessageTTL, rng)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(gameService, cfg.WebhookSecret)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", webhookHandler.HandleUpdate)
	mux.HandleFunc("GET /healthz", handlers.Healthz)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Webhook server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
