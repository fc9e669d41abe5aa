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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ipetrenko/storefront/internal/config"
	"github.com/ipetrenko/storefront/internal/database"
	"github.com/ipetrenko/storefront/internal/email"
	"github.com/ipetrenko/storefront/internal/handlers"
	"github.com/ipetrenko/storefront/internal/repositories"
	"github.com/ipetrenko/storefront/internal/services"
	"github.com/ipetrenko/storefront/internal/utils"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create postgres pool: %v", err)
	}
	defer postgresPool.Close()

	accountRepo := repositories.NewPostgresAccountRepository(postgresPool)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	sender := email.NewSMTPSender(cfg.SMTP)

	identityService, err := services.NewIdentityService(
		accountRepo, utils.NewBcryptHasher(), tokenService, sender, cfg.ConfirmBaseURL)
	if err != nil {
		log.Fatalf("Failed to create identity service: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handlers.NewUserHandler(identityService).Routes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down user server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Starting user server on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
