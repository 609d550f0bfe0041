package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/server"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	otelCfg, err := telemetry.LoadOtelConfig()
	if err != nil {
		return err
	}
	_, shutdownOtel, err := telemetry.InitOtel(ctx, otelCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			log.Printf("Failed to shut down telemetry: %v", err)
		}
	}()

	// Initialize database
	db, err := database.OpenGorm(cfg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, getEnv("MIGRATIONS_DIR", "migrations")); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	llm, err := service.NewLLMClient(ctx, cfg.LLM)
	if err != nil {
		return err
	}

	var images service.ImageStore
	if os.Getenv("S3_BUCKET_NAME") != "" {
		s3Cfg, err := config.NewS3Config(ctx)
		if err != nil {
			log.Printf("Food images disabled: %v", err)
		} else {
			images = service.NewS3ImageStore(s3Cfg)
		}
	}

	// Initialize services
	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	mealSettingsService := service.NewMealSettingsService(db)
	drafts := service.NewRedisDraftStore(redisClient, cfg.Planner.DraftTTL)
	plannerService := service.NewPlannerService(db, profileService, mealSettingsService, llm, drafts, cfg.Planner)
	foodService := service.NewFoodService(db, images)

	limiter := middleware.NewLLMRateLimiter(redisClient, cfg.Planner.RateLimit, cfg.Planner.RateWindow)

	r := router.SetupRouter(router.Services{
		Auth:         authService,
		Profile:      profileService,
		MealSettings: mealSettingsService,
		Planner:      plannerService,
		Foods:        foodService,
	}, limiter, cfg.AllowedOrigins)

	return server.New(cfg, r).Start()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
