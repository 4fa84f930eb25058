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

	"github.com/redis/go-redis/v9"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/config"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/database"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/handlers"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/middleware"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/router"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/services"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/websocket"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/worker"
)

func main() {
	log.Println("🚀 Starting SkillShare Hub backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	var (
		sessionRepo repository.SessionRepository
		userRepo    repository.UserRepository
		queueClient *redis.Client
		wsHub       *websocket.Hub
	)

	if cfg.Storage == config.StoragePostgres {
		// ──── Step 2: Initialize PostgreSQL Connection Pool ────
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()
		log.Println("✓ PostgreSQL connected")

		// ──── Step 3: Initialize Redis Clients ────
		redisClients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		log.Println("✓ Redis connected")

		// ──── Step 4: Run Database Migrations ────
		if err := database.RunMigrations(pool, "migrations"); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		log.Println("✓ Database migrations applied")

		sessionRepo = repository.NewPostgresSessionRepo(pool)
		userRepo = repository.NewPostgresUserRepo(pool)
		queueClient = redisClients.Queue
		wsHub = websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
		log.Println("✓ WebSocket hub started")
	} else {
		// Demo mode: in-memory stores seeded with the sample catalog, no
		// external services required.
		memSessions := repository.NewMemorySessionRepo()
		memSessions.Seed(time.Now())
		sessionRepo = memSessions
		userRepo = repository.NewMemoryUserRepo()
		log.Println("✓ In-memory stores seeded (demo mode)")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, queueClient, jwtAuth, emailService)
	sessionService := services.NewSessionService(sessionRepo, queueClient)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	userHandler := handlers.NewUserHandler(userRepo)

	// ──── Start Notification Workers ────
	var workerPool *worker.Pool
	var reminders *services.ReminderScheduler
	if queueClient != nil {
		workerPool = worker.NewPool(queueClient, emailService, userRepo, cfg.WorkerCount)
		workerPool.Start()
		log.Printf("✓ Notification worker pool started (%d goroutines)", cfg.WorkerCount)

		reminders = services.NewReminderScheduler(sessionRepo, queueClient)
		reminders.Start()
		log.Println("✓ Reminder scheduler started")
	}

	// ──── Start HTTP Server ────
	r := router.New(jwtAuth, authHandler, sessionHandler, userHandler, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		if workerPool != nil {
			workerPool.Stop()
		}
		if reminders != nil {
			reminders.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ SkillShare Hub backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
