// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the InkPress API server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"inkpress/internal/auth"
	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/router"
	"inkpress/internal/store"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)

	// Credential and authorization services.
	issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	guard := auth.NewGuard(issuer, userStore, postStore)
	twofa := auth.NewTwoFactor(userStore)

	// Login rate limiter: Valkey-backed when configured so counts are
	// shared across instances, in-process otherwise.
	var limiter middleware.Limiter
	if addr := cfg.ValkeyAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.ValkeyPassword,
		})
		defer client.Close()

		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("failed to connect to valkey", "addr", addr, "error", err)
			os.Exit(1)
		}
		slog.Info("valkey connected", "addr", addr)
		limiter = middleware.NewValkeyLimiter(client, loginRateLimit, loginRateWindow)
	} else {
		slog.Warn("valkey not configured — using in-process login rate limiter")
		memLimiter := middleware.NewMemoryLimiter(loginRateLimit, loginRateWindow)
		defer memLimiter.Stop()
		limiter = memLimiter
	}

	// Handler groups.
	r := router.New(router.Deps{
		Guard:        guard,
		LoginLimiter: limiter,
		Auth:         handlers.NewAuth(userStore, issuer, twofa),
		Users:        handlers.NewUsers(userStore),
		Categories:   handlers.NewCategories(categoryStore, postStore),
		Posts:        handlers.NewPosts(postStore, guard),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
