package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type demoUser struct {
	name         string
	email        string
	biometrics   types.BiometricsRequest
	mealSettings []types.MealSettingInput
}

func ptr[T any](v T) *T { return &v }

var demoUsers = []demoUser{
	{
		name:  "Somchai Jaidee",
		email: "somchai@example.com",
		biometrics: types.BiometricsRequest{
			BirthYear:     ptr(1994),
			Weight:        ptr(70.0),
			Height:        ptr(170.0),
			Gender:        ptr("male"),
			BodyFat:       ptr("normal"),
			TargetGoal:    ptr("healthy"),
			ActivityLevel: ptr("moderate"),
			EatingType:    ptr("omnivore"),
		},
	},
	{
		name:  "Malee Suksan",
		email: "malee@example.com",
		biometrics: types.BiometricsRequest{
			BirthYear:           ptr(1988),
			Weight:              ptr(68.0),
			Height:              ptr(160.0),
			Gender:              ptr("female"),
			BodyFat:             ptr("high"),
			TargetGoal:          ptr("decrease"),
			TargetWeight:        ptr(58.0),
			ActivityLevel:       ptr("low"),
			DietaryRestrictions: []string{"no pork", "lactose free"},
			EatingType:          ptr("omnivore"),
		},
		mealSettings: []types.MealSettingInput{
			{MealName: "Breakfast", MealTime: "07:00"},
			{MealName: "Lunch", MealTime: "12:00"},
			{MealName: "Afternoon Snack", MealTime: "15:30"},
			{MealName: "Dinner", MealTime: "18:30"},
		},
	},
	{
		name:  "Anan Rakdee",
		email: "anan@example.com",
		biometrics: types.BiometricsRequest{
			BirthYear:     ptr(2000),
			Weight:        ptr(62.0),
			Height:        ptr(178.0),
			Gender:        ptr("male"),
			BodyFat:       ptr("low"),
			TargetGoal:    ptr("increase"),
			TargetWeight:  ptr(70.0),
			ActivityLevel: ptr("very_high"),
			EatingType:    ptr("vegetarian"),
		},
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "testpassword123"
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWTSecret)
	profiles := service.NewProfileService(db)
	mealSettings := service.NewMealSettingsService(db)

	log.Println("Creating demo users...")
	for _, u := range demoUsers {
		user, _, err := auth.Register(ctx, &types.RegisterRequest{Name: u.name, Email: u.email, Password: password})
		if errors.Is(err, service.ErrEmailTaken) {
			log.Printf("User %s already exists, skipping...", u.email)
			continue
		}
		if err != nil {
			log.Printf("Failed to create user %s: %v", u.email, err)
			continue
		}

		if _, err := profiles.UpdateBiometrics(ctx, user.ID, &u.biometrics); err != nil {
			log.Printf("Failed to set biometrics for %s: %v", u.email, err)
			continue
		}
		if len(u.mealSettings) > 0 {
			if _, err := mealSettings.ReplaceSettings(ctx, user.ID, u.mealSettings); err != nil {
				log.Printf("Failed to set meal schedule for %s: %v", u.email, err)
				continue
			}
		}
		log.Printf("Created user: %s (%s)", u.name, u.email)
	}

	log.Printf("Demo users ready. Password: %s", password)
}
