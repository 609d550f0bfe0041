package types

import (
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// BiometricsRequest updates the profile fields the calculator reads. Nil fields are left unchanged.
type BiometricsRequest struct {
	BirthYear           *int     `json:"birth_year" binding:"omitempty,min=1900"`
	Weight              *float64 `json:"weight" binding:"omitempty,gt=0"`
	Height              *float64 `json:"height" binding:"omitempty,gt=0"`
	Gender              *string  `json:"gender"`
	BodyFat             *string  `json:"body_fat"`
	TargetGoal          *string  `json:"target_goal"`
	TargetWeight        *float64 `json:"target_weight" binding:"omitempty,gt=0"`
	ActivityLevel       *string  `json:"activity_level"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	EatingType          *string  `json:"eating_type"`
}

// MealSettingInput is one row of PUT /meal-settings.
type MealSettingInput struct {
	MealName  string `json:"meal_name" binding:"required"`
	MealTime  string `json:"meal_time" binding:"required"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// MealSettingsRequest replaces all meal settings of the caller.
type MealSettingsRequest struct {
	Settings []MealSettingInput `json:"settings" binding:"dive"`
}

// MealSettingsResponse lists stored rows and the schedule they resolve to.
type MealSettingsResponse struct {
	Settings []models.MealTimeSetting   `json:"settings"`
	Meals    []nutrition.MealDefinition `json:"meals"`
}

// FoodSuggestionPreferences is the body of POST /foods/suggest.
type FoodSuggestionPreferences struct {
	MealKey                string   `json:"mealKey"`
	Categories             []string `json:"categories"`
	Ingredients            []string `json:"ingredients"`
	DietaryRestrictions    []string `json:"dietaryRestrictions"`
	AdditionalRequirements string   `json:"additionalRequirements"`
}

// CreateFoodRequest is the body of POST /foods. Image is optional base64 data.
type CreateFoodRequest struct {
	Name        string   `json:"name" binding:"required"`
	Cal         float64  `json:"cal" binding:"gte=0"`
	Carb        float64  `json:"carb" binding:"gte=0"`
	Fat         float64  `json:"fat" binding:"gte=0"`
	Protein     float64  `json:"protein" binding:"gte=0"`
	Serving     string   `json:"serving"`
	Ingredients []string `json:"ingredients"`
	Image       string   `json:"image"`
	ImageType   string   `json:"image_type"`
}

// FoodResponse is a user food with its presigned image URL.
type FoodResponse struct {
	models.UserFood
	Img string `json:"img,omitempty"`
}
