package app

import (
	"context"
	"fmt"
	"log/slog"
	"pdfcatalog/internal/cache/redis"
	"pdfcatalog/internal/config"
	"pdfcatalog/internal/dbs/postgres"
	cachesearchrepo "pdfcatalog/internal/repositories/cache/search"
	cachesessionrepo "pdfcatalog/internal/repositories/cache/session"
	documentrepo "pdfcatalog/internal/repositories/db/document"
	userrepo "pdfcatalog/internal/repositories/db/user"
	filerepo "pdfcatalog/internal/repositories/storage/file"
	authservice "pdfcatalog/internal/services/auth"
	catalogservice "pdfcatalog/internal/services/catalog"
	"pdfcatalog/internal/services/invalidation"
	userservice "pdfcatalog/internal/services/user"
)

type App struct {
	AuthService    *authservice.AuthService
	CatalogService *catalogservice.CatalogService
}

func NewApp(ctx context.Context, log *slog.Logger, dbCfg config.DB, cacheCfg config.Cache, fileStorageCfg config.FileStorage) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     dbCfg.Addr,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DB:       dbCfg.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cacheCfg.Addr, Password: cacheCfg.Password, DB: cacheCfg.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	userRepo := userrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cacheCfg.SessionTTL)

	searchCacheRepo := cachesearchrepo.New(cache, cacheCfg.SearchTTL)

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userRepo, userRepo, sessionCacheRepo)

	docRepo := documentrepo.NewRepository(db)

	fileStorage := filerepo.NewRepository(fileStorageCfg.Path)

	invalidator := invalidation.New(log, searchCacheRepo)

	catalogService := catalogservice.New(log, docRepo, searchCacheRepo, invalidator, userService, fileStorage)

	return &App{
		AuthService:    authService,
		CatalogService: catalogService,
	}, nil
}
