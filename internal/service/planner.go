package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

// ReasonUpstreamUnavailable is the fallback reason recorded when the model could not be reached.
const ReasonUpstreamUnavailable = "UpstreamUnavailable"

var tracer = otel.Tracer("github.com/pageza/nutriplan/backend/internal/service")

// PlanResult is a generated plan plus everything it was generated from.
type PlanResult struct {
	DraftID        string                         `json:"draftId,omitempty"`
	Duration       int                            `json:"duration"`
	Source         string                         `json:"source"`
	FallbackReason string                         `json:"fallbackReason,omitempty"`
	Nutrition      nutrition.RecommendedNutrition `json:"nutrition"`
	Allocation     nutrition.MealAllocation       `json:"allocation"`
	Meals          []nutrition.MealDefinition     `json:"meals"`
	Plan           nutrition.GeneratedPlan        `json:"plan"`
}

// PlannerService turns a user's profile and schedule into meal plans.
type PlannerService struct {
	db           *gorm.DB
	profiles     IProfileService
	mealSettings IMealSettingsService
	llm          LLMClient
	drafts       DraftStore
	cfg          config.PlannerConfig
}

var _ IPlannerService = (*PlannerService)(nil)

func NewPlannerService(db *gorm.DB, profiles IProfileService, mealSettings IMealSettingsService, llm LLMClient, drafts DraftStore, cfg config.PlannerConfig) *PlannerService {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 7
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 30
	}
	if cfg.Language == "" {
		cfg.Language = nutrition.DefaultLanguage
	}
	return &PlannerService{
		db:           db,
		profiles:     profiles,
		mealSettings: mealSettings,
		llm:          llm,
		drafts:       drafts,
		cfg:          cfg,
	}
}

// Recommend computes the user's daily calorie and macro targets.
func (s *PlannerService) Recommend(ctx context.Context, userID uuid.UUID) (nutrition.RecommendedNutrition, error) {
	snapshot, err := s.profiles.GetSnapshot(ctx, userID)
	if err != nil {
		return nutrition.RecommendedNutrition{}, err
	}
	return nutrition.Recommend(snapshot.Profile)
}

// GeneratePlan asks the model for a plan and falls back to the synthesized plan
// whenever the model is unreachable or its answer does not validate.
func (s *PlannerService) GeneratePlan(ctx context.Context, userID uuid.UUID, prefs nutrition.PlanPreferences) (*PlanResult, error) {
	ctx, span := tracer.Start(ctx, "PlannerService.GeneratePlan")
	defer span.End()

	snapshot, err := s.profiles.GetSnapshot(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	rec, err := nutrition.Recommend(snapshot.Profile)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	slots := s.mealSettings.ResolveMealDefinitions(ctx, userID)
	allocation := nutrition.AllocateEnergy(rec.Cal, slots.Meals)
	prefs.PlanDuration = s.clampDuration(prefs.PlanDuration)

	req := nutrition.PlanRequest{
		Nutrition:           rec,
		Allocation:          allocation,
		Meals:               slots.Meals,
		Preferences:         prefs,
		DietaryRestrictions: snapshot.DietaryRestrictions,
		EatingType:          snapshot.EatingType,
		Language:            s.cfg.Language,
	}
	span.SetAttributes(
		attribute.Int("plan.duration", prefs.PlanDuration),
		attribute.Int("plan.meals", len(slots.Meals)),
		attribute.Int("plan.daily_cal", rec.Cal),
	)

	result := &PlanResult{
		Duration:   prefs.PlanDuration,
		Nutrition:  rec,
		Allocation: allocation,
		Meals:      slots.Meals,
	}

	plan, err := s.modelPlan(ctx, req)
	if err != nil {
		result.Source = models.PlanSourceFallback
		result.FallbackReason = fallbackReason(err)
		log.Printf("[PlannerService] Falling back for user %s (%s): %v", userID, result.FallbackReason, err)
		span.SetStatus(codes.Error, result.FallbackReason)
		result.Plan = nutrition.SynthesizeFallbackPlan(rec, prefs.PlanDuration, nutrition.FallbackOptions{
			Allocation:     allocation,
			CanonicalTimes: slots.CanonicalTimes,
		})
	} else {
		result.Source = models.PlanSourceAI
		result.Plan = plan
	}
	span.SetAttributes(attribute.String("plan.source", result.Source))

	draft := &PlanDraft{ID: uuid.New().String(), UserID: userID, Result: *result, CreatedAt: time.Now()}
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		log.Printf("[PlannerService] Failed to save draft for user %s: %v", userID, err)
		return result, nil
	}
	result.DraftID = draft.ID
	return result, nil
}

func (s *PlannerService) modelPlan(ctx context.Context, req nutrition.PlanRequest) (nutrition.GeneratedPlan, error) {
	ctx, span := tracer.Start(ctx, "PlannerService.modelPlan")
	defer span.End()

	raw, err := s.llm.Complete(ctx, nutrition.BuildPlanPrompt(req))
	if err != nil {
		return nil, err
	}
	plan, err := nutrition.ValidatePlanResponse(raw)
	if err != nil {
		log.Printf("[PlannerService] Model response rejected: %s", preview(raw))
		return nil, err
	}
	return nutrition.RepairPlan(plan, req), nil
}

func (s *PlannerService) clampDuration(days int) int {
	if days <= 0 {
		days = s.cfg.DefaultDuration
	}
	if days > s.cfg.MaxDuration {
		days = s.cfg.MaxDuration
	}
	if days < 1 {
		days = 1
	}
	return days
}

func fallbackReason(err error) string {
	var ve *nutrition.ValidationError
	if errors.As(err, &ve) {
		return string(ve.Reason)
	}
	return ReasonUpstreamUnavailable
}

// GetDraft returns a draft owned by the user.
func (s *PlannerService) GetDraft(ctx context.Context, userID uuid.UUID, draftID string) (*PlanResult, error) {
	draft, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, ErrDraftNotFound
	}
	result := draft.Result
	result.DraftID = draft.ID
	return &result, nil
}

// SavePlan persists a draft as one MealPlan row and discards the draft.
func (s *PlannerService) SavePlan(ctx context.Context, userID uuid.UUID, draftID string) (*models.MealPlan, error) {
	result, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	plan := &models.MealPlan{
		UserID:         userID,
		Duration:       result.Duration,
		Source:         result.Source,
		FallbackReason: result.FallbackReason,
		Nutrition:      models.NutritionDocument(result.Nutrition),
		Plan:           models.PlanDocument(result.Plan),
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}

	if err := s.drafts.DeleteDraft(ctx, draftID); err != nil {
		log.Printf("[PlannerService] Failed to delete draft %s: %v", draftID, err)
	}
	return plan, nil
}

// ListPlans returns the user's saved plans, newest first.
func (s *PlannerService) ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	return plans, nil
}

// SuggestFood asks the model for one dish sized to the chosen meal.
func (s *PlannerService) SuggestFood(ctx context.Context, userID uuid.UUID, prefs types.FoodSuggestionPreferences) (*nutrition.FoodSuggestion, error) {
	ctx, span := tracer.Start(ctx, "PlannerService.SuggestFood")
	defer span.End()

	snapshot, err := s.profiles.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := nutrition.Recommend(snapshot.Profile)
	if err != nil {
		return nil, err
	}

	slots := s.mealSettings.ResolveMealDefinitions(ctx, userID)
	allocation := nutrition.AllocateEnergy(rec.Cal, slots.Meals)

	mealName := prefs.MealKey
	for _, def := range slots.Meals {
		if def.Key == prefs.MealKey {
			mealName = def.Name
			break
		}
	}

	prompt := nutrition.BuildFoodSuggestionPrompt(nutrition.FoodSuggestionRequest{
		Nutrition:              rec,
		MealName:               mealName,
		TargetCalories:         allocation[prefs.MealKey],
		Categories:             prefs.Categories,
		Ingredients:            prefs.Ingredients,
		DietaryRestrictions:    append(append([]string{}, snapshot.DietaryRestrictions...), prefs.DietaryRestrictions...),
		EatingType:             snapshot.EatingType,
		AdditionalRequirements: prefs.AdditionalRequirements,
		Language:               s.cfg.Language,
	})

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	suggestion, err := nutrition.ParseFoodSuggestion(raw)
	if err != nil {
		log.Printf("[PlannerService] Food suggestion rejected: %s", preview(raw))
		span.RecordError(err)
		return nil, err
	}
	return suggestion, nil
}
