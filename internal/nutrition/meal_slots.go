package nutrition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical meal keys.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

type canonicalMeal struct {
	key         string
	name        string
	defaultTime string
}

var canonicalMeals = []canonicalMeal{
	{key: MealBreakfast, name: "มื้อเช้า", defaultTime: "07:00"},
	{key: MealLunch, name: "มื้อกลางวัน", defaultTime: "12:00"},
	{key: MealDinner, name: "มื้อเย็น", defaultTime: "18:00"},
}

// CanonicalKeys lists the default meal keys in day order.
func CanonicalKeys() []string {
	return []string{MealBreakfast, MealLunch, MealDinner}
}

// IsCanonicalKey reports whether key is breakfast, lunch or dinner.
func IsCanonicalKey(key string) bool {
	return key == MealBreakfast || key == MealLunch || key == MealDinner
}

func canonicalByName(name string) (canonicalMeal, bool) {
	name = strings.TrimSpace(name)
	for _, c := range canonicalMeals {
		if c.name == name {
			return c, true
		}
	}
	return canonicalMeal{}, false
}

// MealSettingRow is one stored meal-time setting.
type MealSettingRow struct {
	MealName  string
	MealTime  string
	SortOrder int
	IsActive  bool
}

// MealSlots is the resolved schedule: the ordered active meals plus the clock time
// of each canonical meal, falling back to its default when no active row names it.
type MealSlots struct {
	Meals          []MealDefinition  `json:"meals"`
	CanonicalTimes map[string]string `json:"canonical_times"`
}

// DefaultCanonicalTimes returns 07:00 / 12:00 / 18:00 keyed by canonical key.
func DefaultCanonicalTimes() map[string]string {
	times := make(map[string]string, len(canonicalMeals))
	for _, c := range canonicalMeals {
		times[c.key] = c.defaultTime
	}
	return times
}

// DefaultMealDefinitions returns the three canonical meals at their default times.
func DefaultMealDefinitions() []MealDefinition {
	defs := make([]MealDefinition, 0, len(canonicalMeals))
	for i, c := range canonicalMeals {
		defs = append(defs, MealDefinition{
			Key:       c.key,
			Name:      c.name,
			Time:      c.defaultTime,
			IsDefault: true,
			Sort:      i + 1,
		})
	}
	return defs
}

// DefaultMealSlots is the schedule used when settings are missing or unreadable.
func DefaultMealSlots() MealSlots {
	return MealSlots{Meals: DefaultMealDefinitions(), CanonicalTimes: DefaultCanonicalTimes()}
}

// MealKey slugs a display name: lower-cased with internal whitespace collapsed to underscores.
func MealKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// NormalizeMealTime returns a zero-padded "HH:mm", or "00:00" for anything unparseable.
// Seconds such as "07:30:00" are dropped.
func NormalizeMealTime(value string) string {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "00:00"
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return "00:00"
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ResolveMealSlots turns stored rows into ordered meal definitions.
//
// Rows are ordered by SortOrder; inactive rows are skipped. Canonical Thai names map to
// breakfast/lunch/dinner and only the first active row of each counts. Custom names are
// slugged with MealKey; a slug that is already taken (by a canonical key or an earlier
// custom meal) gets a numeric suffix "_2", "_3", ... so no meal is silently overwritten.
// When no row is active the three defaults are returned.
func ResolveMealSlots(rows []MealSettingRow) MealSlots {
	ordered := make([]MealSettingRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	slots := MealSlots{CanonicalTimes: DefaultCanonicalTimes()}
	used := make(map[string]bool)
	var customs []MealSettingRow

	// Canonical rows first so custom slugs can never take a canonical key.
	for _, row := range ordered {
		if !row.IsActive {
			continue
		}
		c, ok := canonicalByName(row.MealName)
		if !ok {
			customs = append(customs, row)
			continue
		}
		if used[c.key] {
			continue
		}
		used[c.key] = true
		t := NormalizeMealTime(row.MealTime)
		slots.CanonicalTimes[c.key] = t
		slots.Meals = append(slots.Meals, MealDefinition{
			Key:       c.key,
			Name:      c.name,
			Time:      t,
			IsDefault: true,
			Sort:      row.SortOrder,
		})
	}

	for _, row := range customs {
		name := strings.TrimSpace(row.MealName)
		key := uniqueKey(MealKey(name), used)
		used[key] = true
		slots.Meals = append(slots.Meals, MealDefinition{
			Key:  key,
			Name: name,
			Time: NormalizeMealTime(row.MealTime),
			Sort: row.SortOrder,
		})
	}

	if len(slots.Meals) == 0 {
		return DefaultMealSlots()
	}

	sort.SliceStable(slots.Meals, func(i, j int) bool {
		return slots.Meals[i].Sort < slots.Meals[j].Sort
	})
	return slots
}

func uniqueKey(base string, used map[string]bool) string {
	if base == "" {
		base = "meal"
	}
	if !used[base] && !IsCanonicalKey(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !used[candidate] {
			return candidate
		}
	}
}
