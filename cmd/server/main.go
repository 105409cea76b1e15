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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"portfolio-builder/auth"
	"portfolio-builder/internal/asset"
	"portfolio-builder/internal/config"
	"portfolio-builder/internal/db"
	"portfolio-builder/internal/middleware"
	"portfolio-builder/internal/portfolio"
	"portfolio-builder/internal/project"
	"portfolio-builder/internal/section"
	"portfolio-builder/internal/user"
	"portfolio-builder/internal/worker"
	"portfolio-builder/redis"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed database with initial data (for development)
	db.SeedData()

	// Initialize Redis
	redis.InitRedis()

	// Object storage for uploaded assets
	storage, err := asset.NewMinioStorage()
	if err != nil {
		log.Fatalf("Object storage unavailable: %v", err)
	}

	// Background pool for deferred work (object removals)
	pool := worker.NewPool(4, 64)
	defer pool.Shutdown()

	// Initialize repositories
	userRepo := user.NewRepository(db.AppDb)
	portfolioRepo := portfolio.NewRepository(db.AppDb)
	sectionRepo := section.NewRepository(db.AppDb)
	projectRepo := project.NewRepository(db.AppDb)
	assetRepo := asset.NewRepository(db.AppDb)

	// Initialize services
	cache := redis.NewCache()
	userService := user.NewService(userRepo)
	sectionService := section.NewService(sectionRepo, portfolioRepo, cache)
	projectService := project.NewService(projectRepo, portfolioRepo, cache)
	portfolioService := portfolio.NewService(portfolioRepo, sectionService, projectService, userService, cache)
	assetService := asset.NewService(assetRepo, storage, pool)

	// Initialize handlers
	userHandler := user.NewHandler(userService, storage)
	portfolioHandler := portfolio.NewHandler(portfolioService)
	sectionHandler := section.NewHandler(sectionService)
	projectHandler := project.NewHandler(projectService)
	assetHandler := asset.NewHandler(assetService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.DELETE("/logout", auth.AuthMiddleWare(), userHandler.Logout)
	router.GET("/profile", auth.AuthMiddleWare(), userHandler.GetProfile)
	router.PUT("/profile", auth.AuthMiddleWare(), userHandler.UpdateProfile)
	router.POST("/profile/picture", auth.AuthMiddleWare(), userHandler.UploadProfilePicture)

	// Portfolio routes
	router.POST("/portfolios", auth.AuthMiddleWare(), portfolioHandler.Create)
	router.GET("/portfolios", auth.AuthMiddleWare(), portfolioHandler.List)
	router.GET("/portfolios/:id", auth.OptionalAuth(), portfolioHandler.Show)
	router.PUT("/portfolios/:id", auth.AuthMiddleWare(), portfolioHandler.Update)
	router.DELETE("/portfolios/:id", auth.AuthMiddleWare(), portfolioHandler.Delete)
	router.GET("/public/:slug", portfolioHandler.ShowPublic)

	// Section routes
	router.POST("/portfolios/:id/sections", auth.AuthMiddleWare(), sectionHandler.Create)
	router.GET("/portfolios/:id/sections", auth.OptionalAuth(), sectionHandler.List)
	router.PUT("/sections/:sectionId", auth.AuthMiddleWare(), sectionHandler.Update)
	router.DELETE("/sections/:sectionId", auth.AuthMiddleWare(), sectionHandler.Delete)

	// Project routes
	router.POST("/portfolios/:id/projects", auth.AuthMiddleWare(), projectHandler.Create)
	router.GET("/portfolios/:id/projects", auth.OptionalAuth(), projectHandler.List)
	router.PUT("/projects/:projectId", auth.AuthMiddleWare(), projectHandler.Update)
	router.DELETE("/projects/:projectId", auth.AuthMiddleWare(), projectHandler.Delete)

	// Asset routes
	router.POST("/upload", auth.AuthMiddleWare(), assetHandler.Upload)
	router.GET("/assets", auth.AuthMiddleWare(), assetHandler.List)
	router.DELETE("/assets/:assetId", auth.AuthMiddleWare(), assetHandler.Delete)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}
