package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testPlannerConfig = config.PlannerConfig{
	DefaultDuration: 7,
	MaxDuration:     30,
	Language:        "Thai",
	DraftTTL:        time.Hour,
}

func setupPlanner(t *testing.T, llm service.LLMClient) (*service.PlannerService, *gorm.DB, *testhelpers.MemoryDraftStore) {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	drafts := testhelpers.NewMemoryDraftStore()
	planner := service.NewPlannerService(
		db,
		service.NewProfileService(db),
		service.NewMealSettingsService(db),
		llm,
		drafts,
		testPlannerConfig,
	)
	return planner, db, drafts
}

func modelPlanJSON(days int) string {
	var b strings.Builder
	b.WriteString("```json\n{")
	for d := 1; d <= days; d++ {
		if d > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"%d":{"totalCal":2000,"meals":{`, d)
		for i, key := range nutrition.CanonicalKeys() {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `"%s":{"name":"meal","time":"09:99","totalCal":600,"items":[{"name":"ข้าวผัด","cal":600,"carb":"80 g","fat":15,"protein":20,"serving":"1 จาน"}]}`, key)
		}
		b.WriteString("}}")
	}
	b.WriteString("}\n```")
	return b.String()
}

func TestRecommend(t *testing.T) {
	planner, db, _ := setupPlanner(t, &testhelpers.FakeLLM{})
	user := testhelpers.CreateTestUser(t, db, "rec@example.com")

	rec, err := planner.Recommend(context.Background(), user.ID)
	require.NoError(t, err)

	age := nutrition.AgeFromBirthYear(user.BirthYear, time.Now())
	bmr := nutrition.CalculateBMR(70, 170, age, nutrition.GenderMale)
	assert.Equal(t, bmr, rec.BMR)
	assert.Equal(t, nutrition.CalculateTDEE(bmr, nutrition.ActivityModerate), rec.Cal)
	assert.Equal(t, 98, rec.Protein)
}

func TestGeneratePlanFromModel(t *testing.T) {
	llm := &testhelpers.FakeLLM{Response: modelPlanJSON(2)}
	planner, db, drafts := setupPlanner(t, llm)
	user := testhelpers.CreateTestUser(t, db, "model@example.com")

	result, err := planner.GeneratePlan(context.Background(), user.ID, nutrition.PlanPreferences{
		PlanDuration:       2,
		SelectedCategories: []string{"อาหารไทย"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlanSourceAI, result.Source)
	assert.Empty(t, result.FallbackReason)
	assert.Equal(t, 2, result.Duration)
	require.Len(t, result.Plan, 2)

	breakfast := result.Plan["1"].Meals["breakfast"]
	assert.Equal(t, "07:00", breakfast.Time)
	require.Len(t, breakfast.Items, 1)
	assert.Equal(t, nutrition.Number(80), breakfast.Items[0].Carb)
	assert.Equal(t, nutrition.SourceAI, breakfast.Items[0].Source)

	require.Len(t, llm.Prompts(), 1)
	assert.Contains(t, llm.Prompts()[0], "exactly 2 days")
	assert.Contains(t, llm.Prompts()[0], "อาหารไทย")
	assert.Contains(t, llm.Prompts()[0], "no pork")

	require.NotEmpty(t, result.DraftID)
	_, err = drafts.GetDraft(context.Background(), result.DraftID)
	assert.NoError(t, err)
}

func TestGeneratePlanFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		llm      *testhelpers.FakeLLM
		duration int
		days     int
		reason   string
	}{
		{"upstream failure", &testhelpers.FakeLLM{Err: fmt.Errorf("%w: timeout", nutrition.ErrUpstreamUnavailable)}, 0, 7, service.ReasonUpstreamUnavailable},
		{"not json", &testhelpers.FakeLLM{Response: "Sorry, I cannot help with that."}, 3, 3, string(nutrition.MalformedResponse)},
		{"array", &testhelpers.FakeLLM{Response: `[{"1":{}}]`}, 1, 1, string(nutrition.InvalidShape)},
		{"empty object", &testhelpers.FakeLLM{Response: `{}`}, 45, 30, string(nutrition.EmptyPlan)},
		{"missing fields", &testhelpers.FakeLLM{Response: `{"1":{"foo":1}}`}, 5, 5, string(nutrition.MissingRequiredFields)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner, db, _ := setupPlanner(t, tt.llm)
			user := testhelpers.CreateTestUser(t, db, "fallback@example.com")

			result, err := planner.GeneratePlan(context.Background(), user.ID, nutrition.PlanPreferences{PlanDuration: tt.duration})
			require.NoError(t, err)

			assert.Equal(t, models.PlanSourceFallback, result.Source)
			assert.Equal(t, tt.reason, result.FallbackReason)
			assert.Equal(t, tt.days, result.Duration)
			assert.Len(t, result.Plan, tt.days)
			assert.NotEmpty(t, result.DraftID)
			for _, day := range result.Plan {
				assert.Len(t, day.Meals, 3)
				assert.Equal(t, nutrition.Number(result.Nutrition.Cal), day.TotalCal)
			}
		})
	}
}

func TestGeneratePlanUsesMealSettings(t *testing.T) {
	planner, db, _ := setupPlanner(t, &testhelpers.FakeLLM{Err: nutrition.ErrUpstreamUnavailable})
	user := testhelpers.CreateTestUser(t, db, "custom@example.com")
	_, err := service.NewMealSettingsService(db).ReplaceSettings(context.Background(), user.ID, []types.MealSettingInput{
		{MealName: "มื้อเช้า", MealTime: "06:30"},
		{MealName: "มื้อกลางวัน", MealTime: "12:00"},
		{MealName: "มื้อเย็น", MealTime: "18:30"},
		{MealName: "มื้อว่าง", MealTime: "15:00"},
	})
	require.NoError(t, err)

	result, err := planner.GeneratePlan(context.Background(), user.ID, nutrition.PlanPreferences{PlanDuration: 1})
	require.NoError(t, err)

	assert.Len(t, result.Meals, 4)
	assert.Contains(t, result.Allocation, "มื้อว่าง")
	assert.InDelta(t, result.Nutrition.Cal, result.Allocation.Total(), 2)
	assert.Equal(t, "06:30", result.Plan["1"].Meals["breakfast"].Time)
	assert.Equal(t, "18:30", result.Plan["1"].Meals["dinner"].Time)
}

func TestGeneratePlanIncompleteProfile(t *testing.T) {
	llm := &testhelpers.FakeLLM{}
	planner, db, _ := setupPlanner(t, llm)
	user := testhelpers.CreateTestUser(t, db, "incomplete@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("weight", 0).Error)

	_, err := planner.GeneratePlan(context.Background(), user.ID, nutrition.PlanPreferences{})
	var cfgErr *nutrition.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, llm.Prompts())
}

func TestSavePlan(t *testing.T) {
	planner, db, drafts := setupPlanner(t, &testhelpers.FakeLLM{Response: modelPlanJSON(3)})
	user := testhelpers.CreateTestUser(t, db, "save@example.com")
	other := testhelpers.CreateTestUser(t, db, "other@example.com")
	ctx := context.Background()

	result, err := planner.GeneratePlan(ctx, user.ID, nutrition.PlanPreferences{PlanDuration: 3})
	require.NoError(t, err)

	_, err = planner.SavePlan(ctx, other.ID, result.DraftID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)

	draft, err := planner.GetDraft(ctx, user.ID, result.DraftID)
	require.NoError(t, err)
	assert.Equal(t, result.Plan, draft.Plan)

	saved, err := planner.SavePlan(ctx, user.ID, result.DraftID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, 3, saved.Duration)
	assert.Equal(t, models.PlanSourceAI, saved.Source)

	_, err = drafts.GetDraft(ctx, result.DraftID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
	_, err = planner.SavePlan(ctx, user.ID, result.DraftID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)

	plans, err := planner.ListPlans(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Len(t, plans[0].Plan, 3)
	assert.Equal(t, result.Nutrition.Cal, plans[0].Nutrition.Cal)

	plans, err = planner.ListPlans(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestSuggestFood(t *testing.T) {
	llm := &testhelpers.FakeLLM{Response: `{"name":"ส้มตำ","cal":"250","carbs":30,"protein":8,"fat":10,"ingredients":["มะละกอ"],"serving":"1 จาน"}`}
	planner, db, _ := setupPlanner(t, llm)
	user := testhelpers.CreateTestUser(t, db, "suggest@example.com")

	suggestion, err := planner.SuggestFood(context.Background(), user.ID, types.FoodSuggestionPreferences{
		MealKey:    "lunch",
		Categories: []string{"อีสาน"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ส้มตำ", suggestion.Name)
	assert.Equal(t, nutrition.Number(250), suggestion.Cal)

	rec, err := planner.Recommend(context.Background(), user.ID)
	require.NoError(t, err)
	lunch := nutrition.AllocateEnergy(rec.Cal, nutrition.DefaultMealDefinitions())["lunch"]
	require.Len(t, llm.Prompts(), 1)
	assert.Contains(t, llm.Prompts()[0], fmt.Sprintf("about %d kcal", lunch))
	assert.Contains(t, llm.Prompts()[0], "มื้อกลางวัน")
}

func TestSuggestFoodRejectsArray(t *testing.T) {
	planner, db, _ := setupPlanner(t, &testhelpers.FakeLLM{Response: `[{"name":"a"},{"name":"b"}]`})
	user := testhelpers.CreateTestUser(t, db, "array@example.com")

	_, err := planner.SuggestFood(context.Background(), user.ID, types.FoodSuggestionPreferences{MealKey: "dinner"})
	assert.ErrorIs(t, err, nutrition.ErrInvalidShape)
}
