package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	router *gin.Engine
	llm    *testhelpers.FakeLLM
}

// drafts uses Redis when REDIS_HOST is set, otherwise the in-memory store.
func drafts(t *testing.T) service.DraftStore {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return testhelpers.NewMemoryDraftStore()
	}
	client := redis.NewClient(&redis.Options{Addr: host + ":6379"})
	t.Cleanup(func() { _ = client.Close() })
	return service.NewRedisDraftStore(client, time.Minute)
}

func setup(t *testing.T) *harness {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)

	llm := &testhelpers.FakeLLM{Err: nutrition.ErrUpstreamUnavailable}
	profiles := service.NewProfileService(db)
	mealSettings := service.NewMealSettingsService(db)
	planner := service.NewPlannerService(db, profiles, mealSettings, llm, drafts(t), config.PlannerConfig{})

	r := router.SetupRouter(router.Services{
		Auth:         service.NewAuthService(db, "integration-secret"),
		Profile:      profiles,
		MealSettings: mealSettings,
		Planner:      planner,
		Foods:        service.NewFoodService(db, nil),
	}, nil, nil)
	return &harness{router: r, llm: llm}
}

func (h *harness) call(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func ptr[T any](v T) *T { return &v }

func TestPlanningFlow(t *testing.T) {
	h := setup(t)

	var auth types.AuthResponse
	code := h.call(t, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Name: "Integration", Email: "flow@example.com", Password: "password123",
	}, &auth)
	require.Equal(t, http.StatusCreated, code)
	token := auth.Token

	// plans need a complete profile
	code = h.call(t, http.MethodPost, "/api/v1/meal-plans/generate", token, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code = h.call(t, http.MethodPut, "/api/v1/profile/biometrics", token, types.BiometricsRequest{
		BirthYear:           ptr(time.Now().Year() - 30),
		Weight:              ptr(70.0),
		Height:              ptr(170.0),
		Gender:              ptr("male"),
		TargetGoal:          ptr("healthy"),
		ActivityLevel:       ptr("moderate"),
		DietaryRestrictions: []string{"no pork"},
	}, nil)
	require.Equal(t, http.StatusOK, code)

	code = h.call(t, http.MethodPut, "/api/v1/meal-settings", token, types.MealSettingsRequest{
		Settings: []types.MealSettingInput{
			{MealName: "Breakfast", MealTime: "07:00"},
			{MealName: "Lunch", MealTime: "12:00"},
			{MealName: "Snack", MealTime: "15:00"},
			{MealName: "Dinner", MealTime: "19:00"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, code)

	var rec nutrition.RecommendedNutrition
	require.Equal(t, http.StatusOK, h.call(t, http.MethodGet, "/api/v1/nutrition/recommendation", token, nil, &rec))
	assert.Positive(t, rec.Cal)

	var result service.PlanResult
	code = h.call(t, http.MethodPost, "/api/v1/meal-plans/generate", token, nutrition.PlanPreferences{PlanDuration: 2}, &result)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.PlanSourceFallback, result.Source)
	assert.Len(t, result.Meals, 4)
	require.NotEmpty(t, result.DraftID)

	var saved models.MealPlan
	code = h.call(t, http.MethodPost, fmt.Sprintf("/api/v1/meal-plans/drafts/%s/save", result.DraftID), token, nil, &saved)
	require.Equal(t, http.StatusCreated, code)

	var list struct {
		Plans []models.MealPlan `json:"plans"`
	}
	require.Equal(t, http.StatusOK, h.call(t, http.MethodGet, "/api/v1/meal-plans", token, nil, &list))
	require.Len(t, list.Plans, 1)
	assert.Equal(t, saved.ID, list.Plans[0].ID)
	assert.Len(t, list.Plans[0].Plan, 2)
	assert.Equal(t, rec.Cal, list.Plans[0].Nutrition.Cal)
}

func TestFoodSearchRanksNameMatches(t *testing.T) {
	h := setup(t)

	var auth types.AuthResponse
	require.Equal(t, http.StatusCreated, h.call(t, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Name: "Foods", Email: "foods@example.com", Password: "password123",
	}, &auth))

	for _, name := range []string{"Green Curry", "Pad Thai", "Thai Tea"} {
		code := h.call(t, http.MethodPost, "/api/v1/foods", auth.Token, types.CreateFoodRequest{Name: name, Cal: 300}, nil)
		require.Equal(t, http.StatusCreated, code)
	}

	var found struct {
		Foods []types.FoodResponse `json:"foods"`
	}
	require.Equal(t, http.StatusOK, h.call(t, http.MethodGet, "/api/v1/foods/search?q=thai", auth.Token, nil, &found))
	require.Len(t, found.Foods, 3)
	assert.Equal(t, "Green Curry", found.Foods[2].Name)
}
