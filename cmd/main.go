package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/salesboard/salesboard/internal/config"
	"github.com/salesboard/salesboard/internal/db"
	"github.com/salesboard/salesboard/internal/handlers"
	"github.com/salesboard/salesboard/internal/httpx"
	"github.com/salesboard/salesboard/internal/middleware"
	"github.com/salesboard/salesboard/internal/services"
	"github.com/salesboard/salesboard/internal/storage"
	"github.com/salesboard/salesboard/internal/token"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	database, err := db.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		zapLogger.Fatal("index creation failed", zap.Error(err))
	}
	cancel()

	var archive storage.Archiver = storage.NopArchive{}
	if cfg.Archive.Enabled {
		minioArchive, err := storage.NewMinioArchive(cfg.Archive)
		if err != nil {
			zapLogger.Fatal("object storage connection failed", zap.Error(err))
		}
		archive = minioArchive
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := services.NewAuthService(database, tokens, zapLogger)
	salesService := services.NewSalesService(database, zapLogger)
	chartService := services.NewChartService(database, zapLogger)
	importService := services.NewImportService(salesService, archive, zapLogger)

	authHandler := handlers.NewAuthHandler(authService)
	salesHandler := handlers.NewSalesHandler(salesService, chartService)
	uploadHandler := handlers.NewUploadHandler(importService, cfg.Upload)
	authGate := middleware.NewAuth(tokens, authService)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler,
		// Multipart overhead on top of the spreadsheet size cap.
		BodyLimit: int(cfg.Upload.MaxBytes) + 1024*1024,
	})
	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/profile", authGate.Authenticate, authHandler.Profile)

	products := api.Group("/products", authGate.Authenticate)
	products.Get("/chart/data", salesHandler.ChartData)
	products.Get("/chart/timeline", salesHandler.Timeline)
	products.Get("/summary", salesHandler.Summary)
	products.Post("/", salesHandler.Create)
	products.Get("/", salesHandler.List)
	products.Delete("/all/deleteAll",
		middleware.RequireRole("admin"),
		middleware.NonProduction(cfg.Production()),
		salesHandler.DeleteAll,
	)
	products.Get("/:id", salesHandler.Get)
	products.Put("/:id", salesHandler.Update)
	products.Delete("/:id", salesHandler.Delete)

	upload := api.Group("/upload", authGate.Authenticate)
	upload.Post("/", uploadHandler.Import)
	upload.Get("/template", uploadHandler.Template)

	zapLogger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	log.Fatal(app.Listen(":" + cfg.Port))
}
