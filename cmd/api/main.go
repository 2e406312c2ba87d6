package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"account-service/internal/auth"
	"account-service/internal/config"
	"account-service/internal/database"
	httpServer "account-service/internal/http"
	"account-service/internal/logging"
	"account-service/internal/storage"
	"account-service/internal/user"
)

// @title           Account Service
// @version         1.0
// @description     A minimal user-account service: registration, sign-in, profile and profile-photo management behind bearer-token authentication.

// @host      localhost:5001
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := database.Connect(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	photoStore, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	tokenService, err := auth.NewPasetoService(cfg.Auth.TokenKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	userRepo := user.NewRepository(db)

	authService := auth.NewService(userRepo, tokenService, logger, cfg.Auth.TokenDuration)
	userService := user.NewService(userRepo, photoStore, logger)

	authHandler := auth.NewHandler(authService, photoStore)
	authMiddleware := auth.NewMiddleware(tokenService)
	userHandler := user.NewHandler(userService)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, userHandler, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
