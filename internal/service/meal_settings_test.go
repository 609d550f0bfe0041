package service_test

import (
	"context"
	"testing"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func TestReplaceAndResolveMealSettings(t *testing.T) {
	replaceAndResolve(t, testhelpers.SetupSQLiteDB(t))
}

func TestReplaceAndResolveMealSettingsPostgres(t *testing.T) {
	replaceAndResolve(t, testhelpers.SetupTestDatabase(t))
}

// replaceAndResolve stores a schedule with an inactive dinner and checks that the
// inactive row reads back as inactive and stays out of the resolved meals.
func replaceAndResolve(t *testing.T, db *gorm.DB) {
	t.Helper()
	user := testhelpers.CreateTestUser(t, db, "meals@example.com")
	svc := service.NewMealSettingsService(db)
	ctx := context.Background()

	stored, err := svc.ReplaceSettings(ctx, user.ID, []types.MealSettingInput{
		{MealName: "มื้อเช้า", MealTime: "6:30", SortOrder: 1},
		{MealName: "มื้อว่าง", MealTime: "15:00:00", SortOrder: 3},
		{MealName: "มื้อกลางวัน", MealTime: "12:15", SortOrder: 2},
		{MealName: "มื้อเย็น", MealTime: "19:00", SortOrder: 4, IsActive: boolPtr(false)},
	})
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "06:30", stored[0].MealTime)

	list, err := svc.ListSettings(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "มื้อเย็น", list[3].MealName)
	assert.False(t, list[3].IsActive)
	for _, st := range list[:3] {
		assert.True(t, st.IsActive, st.MealName)
	}

	slots := svc.ResolveMealDefinitions(ctx, user.ID)
	keys := make([]string, 0, len(slots.Meals))
	for _, m := range slots.Meals {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"breakfast", "lunch", "มื้อว่าง"}, keys)
	assert.Equal(t, "06:30", slots.CanonicalTimes["breakfast"])
	assert.Equal(t, "18:00", slots.CanonicalTimes["dinner"])
}

func TestReplaceSettingsOverwrites(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "overwrite@example.com")
	svc := service.NewMealSettingsService(db)
	ctx := context.Background()

	_, err := svc.ReplaceSettings(ctx, user.ID, []types.MealSettingInput{{MealName: "มื้อเช้า", MealTime: "07:00"}})
	require.NoError(t, err)
	_, err = svc.ReplaceSettings(ctx, user.ID, []types.MealSettingInput{{MealName: "มื้อเย็น", MealTime: "20:00"}})
	require.NoError(t, err)

	list, err := svc.ListSettings(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "มื้อเย็น", list[0].MealName)
	assert.Equal(t, 1, list[0].SortOrder)
}

func TestReplaceSettingsValidation(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "invalid@example.com")
	svc := service.NewMealSettingsService(db)

	cases := map[string][]types.MealSettingInput{
		"bad time":  {{MealName: "มื้อเช้า", MealTime: "7am"}},
		"hour 24":   {{MealName: "มื้อเช้า", MealTime: "24:00"}},
		"blank":     {{MealName: "  ", MealTime: "07:00"}},
		"duplicate": {{MealName: "Snack", MealTime: "10:00"}, {MealName: "snack", MealTime: "15:00"}},
	}
	for name, inputs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ReplaceSettings(context.Background(), user.ID, inputs)
			assert.ErrorIs(t, err, service.ErrInvalidMealSetting)
		})
	}

	list, err := svc.ListSettings(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestResolveMealDefinitionsDefaults(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "defaults@example.com")
	svc := service.NewMealSettingsService(db)

	slots := svc.ResolveMealDefinitions(context.Background(), user.ID)
	assert.Equal(t, nutrition.DefaultMealDefinitions(), slots.Meals)

	// a broken store still yields a schedule
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	slots = svc.ResolveMealDefinitions(context.Background(), user.ID)
	assert.Equal(t, nutrition.DefaultMealDefinitions(), slots.Meals)
}
