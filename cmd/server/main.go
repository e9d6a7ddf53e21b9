package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"github.com/tolmol/bidbazaar/internal/api"
	"github.com/tolmol/bidbazaar/internal/auth"
	"github.com/tolmol/bidbazaar/internal/config"
	"github.com/tolmol/bidbazaar/internal/db"
	"github.com/tolmol/bidbazaar/internal/ws"
)

// Main entry point: sets up database, notification hub, and HTTP server
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	database, err := db.NewDB(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	hub := ws.NewHub()
	authService := auth.NewAuthService(database, cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	handler := api.NewHandler(database, authService, hub)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Real-time bid updates
	r.Get("/ws", hub.ServeHTTP)

	r.Mount("/", handler.Routes())

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Shutdown failed")
		}
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Info("Server stopped")
}
