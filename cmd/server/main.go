package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"proofmeet-backend/internal/auth"
	"proofmeet-backend/internal/bus"
	"proofmeet-backend/internal/cache"
	"proofmeet-backend/internal/config"
	"proofmeet-backend/internal/handlers"
	"proofmeet-backend/internal/meetings"
	appmw "proofmeet-backend/internal/middleware"
	"proofmeet-backend/internal/models"
	"proofmeet-backend/internal/storage"
	"proofmeet-backend/internal/webhooks"
	"proofmeet-backend/internal/workers"
	"proofmeet-backend/internal/zoom"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Storage backend
	var store storage.Store
	dbBacked := cfg.StoreBackend == "postgres"
	if dbBacked {
		var db *sqlx.DB
		for i := 0; i < 10; i++ {
			db, err = sqlx.Connect("postgres", buildDSN(cfg))
			if err == nil {
				break
			}
			log.Printf("DB connection attempt %d failed: %v", i+1, err)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		log.Println("Connected to database")

		if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
			log.Printf("migration file not found, skipping: %v", err)
		} else if _, err := db.Exec(string(migration)); err != nil {
			log.Printf("migration warning: %v", err)
		} else {
			log.Println("migration applied")
		}

		store = storage.NewPostgres(db)
	} else {
		store = storage.NewMemory()
		log.Println("Using in-memory store")
	}
	defer store.Close()

	if cfg.SeedTestUsers {
		seedTestUsers(store)
	}

	// Redis-backed login rate limiting, skipped when REDIS_URL is unset.
	var loginLimit func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		loginLimit = appmw.RateLimitLogin(redisClient)
	}

	// Event bus for webhook lifecycle events, skipped when NATS_URL is unset.
	var publisher webhooks.Publisher
	if cfg.NATSURL != "" {
		natsPub, err := bus.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsPub.Close()
		publisher = natsPub
	}

	// Services and handlers
	zoomClient := zoom.NewClient(cfg)
	verifier := auth.NewVerifier(cfg)
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour

	authHandler := auth.NewHandler(store, verifier, tokenTTL)
	meetingsHandler := meetings.New(store, zoomClient)
	webhooksHandler := webhooks.New(publisher)

	h := handlers.New(store, authHandler, meetingsHandler, webhooksHandler, loginLimit, dbBacked)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	workers.StartTokenSweeper(sweepCtx, store, time.Hour)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func buildDSN(cfg config.App) string {
	return "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=disable"
}

// seedTestUsers creates a pre-verified host and participant for local
// development against the frontend.
func seedTestUsers(store storage.Store) {
	ctx := context.Background()
	testUsers := []models.User{
		{
			Email:           "participant1@example.com",
			CourtID:         "CA-12345",
			State:           "CA",
			CourtCaseNumber: "CASE-2024-001",
			IsHost:          false,
			IsVerified:      true,
		},
		{
			Email:           "host1@example.com",
			CourtID:         "CA-HOST-001",
			State:           "CA",
			CourtCaseNumber: "HOST-2024-001",
			IsHost:          true,
			IsVerified:      true,
		},
	}

	for i := range testUsers {
		user := testUsers[i]
		user.ID = uuid.New().String()
		if err := store.CreateUser(ctx, &user); err != nil {
			if err != storage.ErrAlreadyExists {
				log.Printf("seed user %s: %v", user.Email, err)
			}
			continue
		}
		log.Printf("Created test user: %s", user.Email)
	}
}
