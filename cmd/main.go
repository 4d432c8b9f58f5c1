package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"github.com/arnavm03/storedesk/internal/cache"
	"github.com/arnavm03/storedesk/internal/config"
	"github.com/arnavm03/storedesk/internal/db"
	"github.com/arnavm03/storedesk/internal/handlers"
	"github.com/arnavm03/storedesk/internal/middleware"
	"github.com/arnavm03/storedesk/internal/models"
	"github.com/arnavm03/storedesk/internal/services"
	"github.com/arnavm03/storedesk/internal/storage"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.JWTSecret == "" {
		logrus.Fatal("AUTH_SECRET is required")
	}

	// Connect to backing services.
	database := db.Connect(cfg.MongoURI, cfg.MongoDB)
	if err := db.EnsureIndexes(database); err != nil {
		logrus.Fatalf("failed to create indexes: %v", err)
	}
	rdb := cache.Connect(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	store, err := storage.New(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket)
	if err != nil {
		logrus.Fatalf("failed to connect to MinIO: %v", err)
	}

	// Services and handlers.
	authService := services.NewAuthService(database, cfg.JWTSecret)
	userService := services.NewUserService(database)
	productService := services.NewProductService(database, rdb)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	profileHandler := handlers.NewProfileHandler(userService)
	uploadHandler := handlers.NewUploadHandler(store)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	authGuard := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin)
	superadminOnly := middleware.RequireRole(models.RoleSuperadmin)

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/oauth", authHandler.OAuth)
	auth.Get("/seed", authHandler.Seed)

	// User management routes (superadmin only)
	users := app.Group("/api/users", authGuard, superadminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/search", userHandler.Search)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Product routes: reads are public, mutations are admin only
	products := app.Group("/api/products")
	products.Get("/", productHandler.List)
	products.Get("/seed", productHandler.Seed)
	products.Post("/search", productHandler.Search)
	products.Post("/", authGuard, adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", authGuard, adminOnly, productHandler.Update)
	products.Delete("/:id", authGuard, adminOnly, productHandler.Delete)

	// Profile routes (any authenticated user)
	profile := app.Group("/api/profile", authGuard)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)

	// Upload routes (admin only)
	uploads := app.Group("/api/uploads", authGuard, adminOnly)
	uploads.Post("/image", uploadHandler.Image)

	logrus.Fatal(app.Listen(":" + cfg.AppPort))
}
