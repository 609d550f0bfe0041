package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CleanResponse strips markdown code fences and surrounding whitespace from a model
// reply. When the remainder is not valid JSON, the outermost braces (or brackets, for a
// reply that starts with an array) are extracted, so chatter before or after the JSON
// such as "Here is your plan:" or a trailing "Enjoy!" is tolerated.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if json.Valid([]byte(s)) {
		return s
	}
	open, closing := "{", "}"
	if strings.HasPrefix(s, "[") {
		open, closing = "[", "]"
	}
	start := strings.Index(s, open)
	end := strings.LastIndex(s, closing)
	if start != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// ValidatePlanResponse parses a raw plan reply and checks its top-level shape. Checks run
// in order and the first failure is returned as a *ValidationError:
//
//	parse failure                     MalformedResponse
//	not a JSON object                 InvalidShape
//	no day keys                       EmptyPlan
//	first day has neither meals nor totalCal  MissingRequiredFields
//
// Item-level fields are not checked: Number and Flag decode odd values leniently and
// RepairPlan normalizes what remains.
func ValidatePlanResponse(raw string) (GeneratedPlan, error) {
	cleaned := CleanResponse(raw)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, newValidationError(MalformedResponse, err)
	}
	if err := CheckPlanShape(parsed); err != nil {
		return nil, err
	}

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, newValidationError(InvalidShape, err)
	}
	return plan, nil
}

// CheckPlanShape runs the top-level shape checks on an already decoded JSON value.
func CheckPlanShape(parsed any) error {
	days, ok := parsed.(map[string]any)
	if !ok || days == nil {
		return newValidationError(InvalidShape, fmt.Errorf("expected a JSON object keyed by day, got %s", jsonKind(parsed)))
	}
	if len(days) == 0 {
		return newValidationError(EmptyPlan, nil)
	}

	key := firstDayKey(days)
	day, ok := days[key].(map[string]any)
	if !ok {
		return newValidationError(MissingRequiredFields, fmt.Errorf("day %q is not an object", key))
	}
	_, hasMeals := day["meals"]
	_, hasTotal := day["totalCal"]
	if !hasMeals && !hasTotal {
		return newValidationError(MissingRequiredFields, fmt.Errorf("day %q has neither meals nor totalCal", key))
	}
	return nil
}

// firstDayKey prefers "1", otherwise the lowest key in numeric-aware order.
func firstDayKey(days map[string]any) string {
	if _, ok := days[DayKey(1)]; ok {
		return DayKey(1)
	}
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sortDayKeys(keys)
	return keys[0]
}

func sortDayKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ParseFoodSuggestion validates the single-dish reply. Arrays are rejected outright.
func ParseFoodSuggestion(raw string) (*FoodSuggestion, error) {
	cleaned := CleanResponse(raw)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, newValidationError(MalformedResponse, err)
	}
	obj, ok := parsed.(map[string]any)
	if !ok || obj == nil {
		return nil, newValidationError(InvalidShape, fmt.Errorf("expected a single JSON object, got %s", jsonKind(parsed)))
	}
	if len(obj) == 0 {
		return nil, newValidationError(MissingRequiredFields, errors.New("empty object"))
	}

	var suggestion FoodSuggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestion); err != nil {
		return nil, newValidationError(InvalidShape, err)
	}
	if strings.TrimSpace(suggestion.Name) == "" {
		return nil, newValidationError(MissingRequiredFields, errors.New("name is required"))
	}
	return &suggestion, nil
}

// RepairPlan conforms a validated model plan to the request it answered: exactly
// days "1".."N", every requested meal key on every day, supplied meal times, and
// non-negative numbers. Gaps are filled from the fallback plan for the same request.
func RepairPlan(plan GeneratedPlan, req PlanRequest) GeneratedPlan {
	days := req.Preferences.PlanDuration
	if days < 1 {
		days = 1
	}
	meals := req.Meals
	if len(meals) == 0 {
		meals = DefaultMealDefinitions()
	}

	fallback := SynthesizeFallbackPlan(req.Nutrition, days, FallbackOptions{
		Allocation:     req.Allocation,
		CanonicalTimes: canonicalTimesOf(meals),
	})

	repaired := make(GeneratedPlan, days)
	for d := 1; d <= days; d++ {
		key := DayKey(d)
		day, fromModel := plan[key]
		if !fromModel {
			day = fallback[key]
		}

		// a day with any filled meal no longer matches the model's total
		filled := false
		out := DayPlan{Meals: make(map[string]MealEntry, len(meals))}
		for _, def := range meals {
			entry, ok := day.Meals[def.Key]
			if !ok || len(entry.Items) == 0 {
				entry = fillerMeal(def, req, fallback[key])
				filled = true
			}
			out.Meals[def.Key] = repairMeal(entry, def)
			out.TotalCal += out.Meals[def.Key].TotalCal
		}
		if fromModel && !filled && day.TotalCal > 0 {
			out.TotalCal = day.TotalCal
		}
		repaired[key] = out
	}
	return repaired
}

func repairMeal(entry MealEntry, def MealDefinition) MealEntry {
	if strings.TrimSpace(entry.Name) == "" {
		entry.Name = def.Name
	}
	entry.Time = def.Time

	items := make([]FoodItem, 0, len(entry.Items))
	var sum Number
	for _, item := range entry.Items {
		if item.Source == "" {
			item.Source = SourceAI
		}
		item.Cal = nonNegative(item.Cal)
		item.Carb = nonNegative(item.Carb)
		item.Fat = nonNegative(item.Fat)
		item.Protein = nonNegative(item.Protein)
		sum += item.Cal
		items = append(items, item)
	}
	entry.Items = items

	entry.TotalCal = nonNegative(entry.TotalCal)
	if entry.TotalCal == 0 {
		entry.TotalCal = sum
	}
	return entry
}

// fillerMeal supplies a meal the model left out. Canonical meals come from the fallback
// day; custom meals get a generic snack sized to their allocation.
func fillerMeal(def MealDefinition, req PlanRequest, fallbackDay DayPlan) MealEntry {
	if entry, ok := fallbackDay.Meals[def.Key]; ok && IsCanonicalKey(def.Key) && def.IsDefault {
		entry.Name = def.Name
		return entry
	}

	kcal := req.Allocation[def.Key]
	share := 0.0
	if req.Nutrition.Cal > 0 {
		share = float64(kcal) / float64(req.Nutrition.Cal)
	}
	item := snackFood.item(req.Nutrition, share)
	item.Cal = Number(kcal)
	return MealEntry{
		Name:     def.Name,
		Time:     def.Time,
		TotalCal: Number(kcal),
		Items:    []FoodItem{item},
	}
}

func canonicalTimesOf(meals []MealDefinition) map[string]string {
	times := DefaultCanonicalTimes()
	for _, m := range meals {
		if m.IsDefault && IsCanonicalKey(m.Key) {
			times[m.Key] = m.Time
		}
	}
	return times
}

func nonNegative(n Number) Number {
	if n < 0 {
		return 0
	}
	return n
}
