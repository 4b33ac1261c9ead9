package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/qupp/api"
	"github.com/VitaminP8/qupp/internal/auth"
	"github.com/VitaminP8/qupp/internal/config"
	"github.com/VitaminP8/qupp/internal/content"
	"github.com/VitaminP8/qupp/internal/storage/gormdb"
	"github.com/VitaminP8/qupp/internal/storage/memory"
	"github.com/VitaminP8/qupp/internal/user"
)

func main() {
	storageType := flag.String("storage", "", "storage type: memory, postgres or sqlite (overrides STORAGE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *storageType != "" {
		cfg.Storage = *storageType
	}

	var userStore user.UserStorage
	var contentStore content.ContentStorage

	switch cfg.Storage {
	case "postgres", "sqlite":
		if cfg.Storage == "postgres" {
			err = gormdb.InitDB(cfg.DB)
		} else {
			err = gormdb.InitSQLite(cfg.SQLitePath)
		}
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := gormdb.Migrate(); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Printf("Using %s storage", cfg.Storage)
		userStore = gormdb.NewUserStorage()
		contentStore = gormdb.NewContentStorage()

	case "memory":
		log.Println("Using in-memory storage")
		userStore = memory.NewUserMemoryStorage()
		contentStore = memory.NewContentMemoryStorage()

	default:
		log.Fatalf("unknown storage type: %s", cfg.Storage)
	}

	tokens, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to create token issuer: %v", err)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	directory := user.NewDirectory(userStore)

	handler := &api.Handler{
		Users:    directory,
		Gate:     user.NewCredentialGate(userStore, hasher),
		Hasher:   hasher,
		Tokens:   tokens,
		Content:  content.NewAggregator(directory, contentStore, content.NewStorageSummaryResolver(contentStore)),
		Store:    contentStore,
		PageSize: cfg.PageSize,
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: auth.AuthMiddleware(tokens)(handler.Routes()),
	}

	go func() {
		log.Printf("Server listening on %s", cfg.HTTPAddr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	if cfg.Storage != "memory" {
		if err := gormdb.CloseDB(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}

	log.Println("Server stopped")
}
