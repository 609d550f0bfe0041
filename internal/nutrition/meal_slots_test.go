package nutrition_test

import (
	"testing"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(meals []nutrition.MealDefinition) []string {
	keys := make([]string, 0, len(meals))
	for _, m := range meals {
		keys = append(keys, m.Key)
	}
	return keys
}

func TestNormalizeMealTime(t *testing.T) {
	tests := map[string]string{
		"7:00":     "07:00",
		"07:30":    "07:30",
		"18:05:00": "18:05",
		" 9:5 ":    "09:05",
		"":         "00:00",
		"noon":     "00:00",
		"25:00":    "00:00",
		"12:60":    "00:00",
		"1:2:3:4":  "00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, nutrition.NormalizeMealTime(in), "input %q", in)
	}
}

func TestMealKey(t *testing.T) {
	assert.Equal(t, "late_night_snack", nutrition.MealKey("  Late   Night\tSnack "))
	assert.Equal(t, "มื้อว่าง", nutrition.MealKey("มื้อว่าง"))
}

func TestResolveMealSlotsOrdersAndMapsCanonicalNames(t *testing.T) {
	rows := []nutrition.MealSettingRow{
		{MealName: "มื้อเย็น", MealTime: "19:00", SortOrder: 3, IsActive: true},
		{MealName: "มื้อว่าง", MealTime: "15:30", SortOrder: 4, IsActive: true},
		{MealName: "มื้อเช้า", MealTime: "6:45", SortOrder: 1, IsActive: true},
		{MealName: "มื้อกลางวัน", MealTime: "12:00:00", SortOrder: 2, IsActive: true},
	}

	slots := nutrition.ResolveMealSlots(rows)

	require.Len(t, slots.Meals, 4)
	assert.Equal(t, []string{"breakfast", "lunch", "dinner", "มื้อว่าง"}, keysOf(slots.Meals))
	assert.Equal(t, "06:45", slots.Meals[0].Time)
	assert.True(t, slots.Meals[0].IsDefault)
	assert.False(t, slots.Meals[3].IsDefault)
	assert.Equal(t, "19:00", slots.CanonicalTimes[nutrition.MealDinner])
}

func TestResolveMealSlotsSkipsInactiveAndKeepsDefaultTimes(t *testing.T) {
	rows := []nutrition.MealSettingRow{
		{MealName: "มื้อเช้า", MealTime: "08:00", SortOrder: 1, IsActive: true},
		{MealName: "มื้อกลางวัน", MealTime: "13:00", SortOrder: 2, IsActive: false},
	}

	slots := nutrition.ResolveMealSlots(rows)

	assert.Equal(t, []string{"breakfast"}, keysOf(slots.Meals))
	assert.Equal(t, "12:00", slots.CanonicalTimes[nutrition.MealLunch])
	assert.Equal(t, "18:00", slots.CanonicalTimes[nutrition.MealDinner])
}

func TestResolveMealSlotsNoActiveRowsReturnsDefaults(t *testing.T) {
	slots := nutrition.ResolveMealSlots([]nutrition.MealSettingRow{
		{MealName: "มื้อเช้า", MealTime: "08:00", SortOrder: 1},
	})

	assert.Equal(t, nutrition.DefaultMealSlots(), slots)
	assert.Equal(t, nutrition.DefaultMealSlots(), nutrition.ResolveMealSlots(nil))
}

func TestResolveMealSlotsCollisionSuffix(t *testing.T) {
	rows := []nutrition.MealSettingRow{
		{MealName: "มื้อเช้า", MealTime: "07:00", SortOrder: 1, IsActive: true},
		{MealName: "Snack", MealTime: "10:00", SortOrder: 2, IsActive: true},
		{MealName: "snack", MealTime: "15:00", SortOrder: 3, IsActive: true},
		{MealName: "Breakfast", MealTime: "16:00", SortOrder: 4, IsActive: true},
		{MealName: "SNACK", MealTime: "21:00", SortOrder: 5, IsActive: true},
	}

	slots := nutrition.ResolveMealSlots(rows)

	assert.Equal(t, []string{"breakfast", "snack", "snack_2", "breakfast_2", "snack_3"}, keysOf(slots.Meals))
}

func TestResolveMealSlotsDuplicateCanonicalFirstWins(t *testing.T) {
	rows := []nutrition.MealSettingRow{
		{MealName: "มื้อเช้า", MealTime: "09:00", SortOrder: 2, IsActive: true},
		{MealName: "มื้อเช้า", MealTime: "06:00", SortOrder: 1, IsActive: true},
	}

	slots := nutrition.ResolveMealSlots(rows)

	require.Len(t, slots.Meals, 1)
	assert.Equal(t, "06:00", slots.Meals[0].Time)
}

func TestResolveMealSlotsIsIdempotent(t *testing.T) {
	rows := []nutrition.MealSettingRow{
		{MealName: "มื้อกลางวัน", MealTime: "12:00", SortOrder: 2, IsActive: true},
		{MealName: "Tea", MealTime: "16:00", SortOrder: 2, IsActive: true},
		{MealName: "มื้อเช้า", MealTime: "07:00", SortOrder: 1, IsActive: true},
	}

	first := nutrition.ResolveMealSlots(rows)
	second := nutrition.ResolveMealSlots(rows)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"breakfast", "lunch", "tea"}, keysOf(first.Meals))
}
