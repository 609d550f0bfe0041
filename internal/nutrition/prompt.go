package nutrition

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultLanguage is the language food names are requested in.
const DefaultLanguage = "Thai"

// PlanPreferences is the free-form bundle the user submits with a plan request.
type PlanPreferences struct {
	PlanDuration           int      `json:"planDuration"`
	SelectedCategories     []string `json:"selectedCategories"`
	SelectedBudget         string   `json:"selectedBudget"`
	VarietyLevel           string   `json:"varietyLevel"`
	SelectedIngredients    []string `json:"selectedIngredients"`
	AdditionalRequirements string   `json:"additionalRequirements"`
	SelectedRestrictions   []string `json:"selectedRestrictions"`
	SelectedGoals          []string `json:"selectedGoals"`
}

// PlanRequest is everything the plan prompt is built from.
type PlanRequest struct {
	Nutrition           RecommendedNutrition
	Allocation          MealAllocation
	Meals               []MealDefinition
	Preferences         PlanPreferences
	DietaryRestrictions []string
	EatingType          string
	Language            string
}

// BuildPlanPrompt renders the multi-day plan generation request.
func BuildPlanPrompt(req PlanRequest) string {
	days := req.Preferences.PlanDuration
	if days < 1 {
		days = 1
	}
	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}
	n := req.Nutrition

	var b strings.Builder
	b.WriteString("You are a professional nutritionist and meal planning expert. ")
	fmt.Fprintf(&b, "Create a %d-day meal plan that follows the targets and rules below exactly.\n\n", days)

	b.WriteString("DAILY NUTRITION TARGETS:\n")
	fmt.Fprintf(&b, "- Calories: %d kcal (stay as close as possible to this number every day)\n", n.Cal)
	fmt.Fprintf(&b, "- Protein: %d g (within ±5 g)\n", n.Protein)
	fmt.Fprintf(&b, "- Carbohydrate: %d g (within ±5 g)\n", n.Carb)
	fmt.Fprintf(&b, "- Fat: %d g (within ±5 g)\n\n", n.Fat)

	b.WriteString("MEALS PER DAY (use these calorie targets and times, do not invent your own split):\n")
	for _, m := range req.Meals {
		fmt.Fprintf(&b, "- %s (key %s): %d kcal at %s\n", m.Name, jsonString(m.Key), req.Allocation[m.Key], m.Time)
	}
	b.WriteString("\n")

	b.WriteString("USER PREFERENCES:\n")
	writeList(&b, "Food categories", req.Preferences.SelectedCategories)
	writeValue(&b, "Budget", req.Preferences.SelectedBudget)
	writeValue(&b, "Variety level", req.Preferences.VarietyLevel)
	writeList(&b, "Ingredients to include", req.Preferences.SelectedIngredients)
	writeList(&b, "Dietary restrictions", mergeUnique(req.DietaryRestrictions, req.Preferences.SelectedRestrictions))
	writeList(&b, "Goals", req.Preferences.SelectedGoals)
	writeValue(&b, "Eating type", req.EatingType)
	writeValue(&b, "Additional requirements", req.Preferences.AdditionalRequirements)
	fmt.Fprintf(&b, "- Plan duration: %d days\n\n", days)

	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("Return ONLY a JSON object with exactly this structure (values are examples):\n")
	b.WriteString(planExample(days, req.Meals, req.Allocation))
	b.WriteString("\n\n")

	b.WriteString("RULES:\n")
	fmt.Fprintf(&b, "1. Produce exactly %d days, keyed \"1\" to \"%d\".\n", days, days)
	b.WriteString("2. Every day must contain every meal key listed above and no others.\n")
	b.WriteString("3. Each meal must contain exactly one food item in \"items\".\n")
	fmt.Fprintf(&b, "4. All food names must be written in %s.\n", language)
	b.WriteString("5. Do not use markdown, code fences, or any text outside the JSON object.\n")
	b.WriteString("6. All numbers must be plain JSON numbers, and each meal's totalCal must equal the sum of its items' cal.\n")
	b.WriteString("7. Each meal's \"time\" must match the time given above for that meal.\n")
	b.WriteString("8. Every \"serving\" field must state a quantity and a unit, for example \"1 plate (350 g)\".\n")
	b.WriteString("9. Set \"source\" to \"ai\", \"isUserFood\" to false and \"img\" to an empty string.\n")

	return b.String()
}

// planExample writes the literal example JSON. It is built by hand so day and meal
// keys keep their schedule order.
func planExample(days int, meals []MealDefinition, allocation MealAllocation) string {
	var b strings.Builder
	b.WriteString("{\n")
	for day := 1; day <= days; day++ {
		fmt.Fprintf(&b, "  \"%d\": {\n", day)
		fmt.Fprintf(&b, "    \"totalCal\": %d,\n", allocation.Total())
		b.WriteString("    \"meals\": {\n")
		for i, m := range meals {
			kcal := allocation[m.Key]
			fmt.Fprintf(&b, "      %s: {\n", jsonString(m.Key))
			fmt.Fprintf(&b, "        \"name\": %s,\n", jsonString(m.Name))
			fmt.Fprintf(&b, "        \"time\": %s,\n", jsonString(m.Time))
			fmt.Fprintf(&b, "        \"totalCal\": %d,\n", kcal)
			b.WriteString("        \"items\": [\n")
			fmt.Fprintf(&b, "          {\"name\": \"food name\", \"cal\": %d, \"carb\": 0, \"fat\": 0, \"protein\": 0, \"img\": \"\", \"serving\": \"1 plate (300 g)\", \"source\": \"ai\", \"isUserFood\": false}\n", kcal)
			b.WriteString("        ]\n")
			b.WriteString("      }")
			if i < len(meals)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("    }\n")
		b.WriteString("  }")
		if day < days {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// jsonString quotes s as a JSON string literal. User-entered meal names may carry
// quotes or backslashes.
func jsonString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}

// FoodSuggestionRequest drives the single-dish flow.
type FoodSuggestionRequest struct {
	Nutrition              RecommendedNutrition
	MealName               string
	TargetCalories         int
	Categories             []string
	Ingredients            []string
	DietaryRestrictions    []string
	EatingType             string
	AdditionalRequirements string
	Language               string
}

// BuildFoodSuggestionPrompt renders the request for exactly one dish.
func BuildFoodSuggestionPrompt(req FoodSuggestionRequest) string {
	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}

	var b strings.Builder
	b.WriteString("You are a professional nutritionist. Suggest exactly one dish for the user.\n\n")

	b.WriteString("TARGETS:\n")
	if req.MealName != "" {
		fmt.Fprintf(&b, "- Meal: %s\n", req.MealName)
	}
	if req.TargetCalories > 0 {
		fmt.Fprintf(&b, "- Calories for this dish: about %d kcal\n", req.TargetCalories)
	}
	fmt.Fprintf(&b, "- Daily targets: %d kcal, protein %d g, carbohydrate %d g, fat %d g\n\n",
		req.Nutrition.Cal, req.Nutrition.Protein, req.Nutrition.Carb, req.Nutrition.Fat)

	b.WriteString("USER PREFERENCES:\n")
	writeList(&b, "Food categories", req.Categories)
	writeList(&b, "Ingredients to include", req.Ingredients)
	writeList(&b, "Dietary restrictions", req.DietaryRestrictions)
	writeValue(&b, "Eating type", req.EatingType)
	writeValue(&b, "Additional requirements", req.AdditionalRequirements)
	b.WriteString("\n")

	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("Return ONLY a single JSON object, never an array, with exactly these keys:\n")
	b.WriteString(`{
  "name": "dish name",
  "cal": 450,
  "carbs": 50,
  "protein": 30,
  "fat": 12,
  "ingredients": ["ingredient 1", "ingredient 2"],
  "serving": "1 plate (350 g)"
}`)
	b.WriteString("\n\nRULES:\n")
	fmt.Fprintf(&b, "1. The dish name and ingredients must be written in %s.\n", language)
	b.WriteString("2. cal, carbs, protein and fat must be plain JSON numbers.\n")
	b.WriteString("3. serving must state a quantity and a unit.\n")
	b.WriteString("4. Do not use markdown, code fences, or any text outside the JSON object.\n")

	return b.String()
}

func writeList(b *strings.Builder, label string, values []string) {
	values = nonEmpty(values)
	if len(values) == 0 {
		fmt.Fprintf(b, "- %s: none\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(values, ", "))
}

func writeValue(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = "none"
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func mergeUnique(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, v := range nonEmpty(list) {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
