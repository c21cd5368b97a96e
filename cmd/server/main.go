package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"saleboard/docs"
	"saleboard/internal/auth"
	"saleboard/internal/cache"
	"saleboard/internal/config"
	"saleboard/internal/db"
	"saleboard/internal/handler"
	"saleboard/internal/model"
	"saleboard/internal/photo"
	"saleboard/internal/repository"
	"saleboard/internal/router"
	"saleboard/internal/service"
)

// @title Sale Board API
// @version 1.0
// @description Marketplace catalog API with JWT authentication, product listings, and photo uploads.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	photoStore, err := photo.NewDiskStore(cfg.UploadDir, cfg.PhotoBaseURL)
	if err != nil {
		log.Fatalf("photo store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, photoStore)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(catalogService, photoStore)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	// Register routes
	router.Register(e, cfg, authHandler, productHandler, categoryHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
