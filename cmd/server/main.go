package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheetdrop/internal/auth"
	"sheetdrop/internal/config"
	"sheetdrop/internal/db"
	"sheetdrop/internal/ingestion"
	"sheetdrop/internal/logging"
	"sheetdrop/internal/middleware"
	"sheetdrop/internal/query"
	"sheetdrop/internal/repository"
	"sheetdrop/internal/storage"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

//go:embed static
var staticFiles embed.FS

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Run migrations for the fixed tables
	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Create repositories
	datasets := repository.NewDatasetRepository(conn.Pool)
	uploads := repository.NewUploadLogRepository(conn.Pool)
	logins := repository.NewLoginRepository(conn.Pool)

	// Object storage is optional; without it uploads lose only the file URL.
	var blobs storage.BlobStore
	if cfg.Blob.Enabled() {
		store, err := storage.NewS3Store(cfg.Blob)
		if err != nil {
			slog.Error("failed to configure object storage", "error", err)
			os.Exit(1)
		}
		blobs = store
		slog.Info("object storage enabled", "bucket", cfg.Blob.Bucket)
	} else {
		slog.Warn("object storage not configured, file URLs will be omitted")
	}

	// Create services and handlers
	ingestService := ingestion.NewService(datasets, uploads, blobs)
	queryHandler := query.NewHandler(query.NewService(uploads, datasets))
	authHandler := auth.NewHandler(logins)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))
	router.Use(corsHandler.Handler)

	router.Method(http.MethodPost, "/api/upload", ingestion.NewHTTPHandler(ingestService))
	router.Get("/api/uploads", queryHandler.ListUploads)
	router.Get("/api/uploads/{id}", queryHandler.FetchPage)
	router.Post("/login", authHandler.Login)
	router.Get("/logout", authHandler.Logout)

	// Static pages (login and home)
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		slog.Error("failed to load static assets", "error", err)
		os.Exit(1)
	}
	router.Handle("/*", http.FileServer(http.FS(staticFS)))

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}
