package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDraftNotFound      = errors.New("plan draft not found or expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidMealSetting = errors.New("invalid meal setting")
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
}

// IProfileService defines the interface for biometric profile operations
type IProfileService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetSnapshot(ctx context.Context, userID uuid.UUID) (*ProfileSnapshot, error)
	UpdateBiometrics(ctx context.Context, userID uuid.UUID, req *types.BiometricsRequest) (*models.User, error)
}

// IMealSettingsService defines the interface for meal schedule operations
type IMealSettingsService interface {
	ListSettings(ctx context.Context, userID uuid.UUID) ([]models.MealTimeSetting, error)
	ReplaceSettings(ctx context.Context, userID uuid.UUID, settings []types.MealSettingInput) ([]models.MealTimeSetting, error)
	ResolveMealDefinitions(ctx context.Context, userID uuid.UUID) nutrition.MealSlots
}

// IPlannerService defines the interface for nutrition targets and meal plans
type IPlannerService interface {
	Recommend(ctx context.Context, userID uuid.UUID) (nutrition.RecommendedNutrition, error)
	GeneratePlan(ctx context.Context, userID uuid.UUID, prefs nutrition.PlanPreferences) (*PlanResult, error)
	GetDraft(ctx context.Context, userID uuid.UUID, draftID string) (*PlanResult, error)
	SavePlan(ctx context.Context, userID uuid.UUID, draftID string) (*models.MealPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error)
	SuggestFood(ctx context.Context, userID uuid.UUID, prefs types.FoodSuggestionPreferences) (*nutrition.FoodSuggestion, error)
}

// IFoodService defines the interface for user-created foods
type IFoodService interface {
	CreateFood(ctx context.Context, userID uuid.UUID, req *types.CreateFoodRequest) (*types.FoodResponse, error)
	SearchFoods(ctx context.Context, userID uuid.UUID, query string, limit int) ([]types.FoodResponse, error)
}

// DraftStore keeps generated plans until the user saves them.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *PlanDraft) error
	GetDraft(ctx context.Context, id string) (*PlanDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// ImageStore uploads food images and hands out readable URLs for them.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
}
