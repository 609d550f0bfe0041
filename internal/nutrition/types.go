package nutrition

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Gender is the biological sex used by the BMR equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// BodyFat is the self-reported body fat band.
type BodyFat string

const (
	BodyFatLow     BodyFat = "low"
	BodyFatNormal  BodyFat = "normal"
	BodyFatHigh    BodyFat = "high"
	BodyFatUnknown BodyFat = "unknown"
)

// Goal is the user's weight goal.
type Goal string

const (
	GoalDecrease Goal = "decrease"
	GoalIncrease Goal = "increase"
	GoalHealthy  Goal = "healthy"
)

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
	ActivityVeryHigh ActivityLevel = "very_high"
)

// ParseGender maps a stored value to a Gender. Anything unrecognized is GenderOther.
func ParseGender(s string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderOther
	}
}

// ParseBodyFat maps a stored value to a BodyFat band, defaulting to unknown.
func ParseBodyFat(s string) BodyFat {
	switch b := BodyFat(strings.ToLower(strings.TrimSpace(s))); b {
	case BodyFatLow, BodyFatNormal, BodyFatHigh:
		return b
	default:
		return BodyFatUnknown
	}
}

// ParseGoal maps a stored value to a Goal, defaulting to healthy.
func ParseGoal(s string) Goal {
	switch g := Goal(strings.ToLower(strings.TrimSpace(s))); g {
	case GoalDecrease, GoalIncrease:
		return g
	default:
		return GoalHealthy
	}
}

// ParseActivityLevel maps a stored value to an ActivityLevel, defaulting to moderate.
func ParseActivityLevel(s string) ActivityLevel {
	switch a := ActivityLevel(strings.ToLower(strings.TrimSpace(s))); a {
	case ActivityLow, ActivityModerate, ActivityHigh, ActivityVeryHigh:
		return a
	default:
		return ActivityModerate
	}
}

// UserProfileData is the normalized biometric snapshot the calculator works on.
type UserProfileData struct {
	Age           int           `json:"age"`
	Weight        float64       `json:"weight"`
	Height        float64       `json:"height"`
	Gender        Gender        `json:"gender"`
	BodyFat       BodyFat       `json:"body_fat"`
	TargetGoal    Goal          `json:"target_goal"`
	TargetWeight  float64       `json:"target_weight"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// RecommendedNutrition is the daily target produced once per planning request.
type RecommendedNutrition struct {
	Cal     int `json:"cal"`
	Protein int `json:"protein"`
	Carb    int `json:"carb"`
	Fat     int `json:"fat"`
	BMR     int `json:"bmr"`
	TDEE    int `json:"tdee"`
}

// Macros holds daily macronutrient grams.
type Macros struct {
	Protein int `json:"protein"`
	Carb    int `json:"carb"`
	Fat     int `json:"fat"`
}

// MealDefinition is one active slot in a user's eating schedule.
type MealDefinition struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Time      string `json:"time"`
	IsDefault bool   `json:"isDefault"`
	Sort      int    `json:"sort"`
}

// MealAllocation maps a meal key to its kcal share of the day.
type MealAllocation map[string]int

// Total returns the sum of all per-meal allocations.
func (a MealAllocation) Total() int {
	total := 0
	for _, v := range a {
		total += v
	}
	return total
}

// Food item sources.
const (
	SourceAI   = "ai"
	SourceUser = "user"
)

// Number accepts JSON numbers and numeric strings, which models emit interchangeably.
// Units and filler words are skipped ("30 g", "about 600 kcal"); anything with no
// number in it decodes as 0 so one odd field never rejects a whole plan.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Number(looseNumber(s))
		return nil
	}

	*n = 0
	return nil
}

func looseNumber(s string) float64 {
	for _, field := range strings.Fields(s) {
		field = strings.ReplaceAll(field, ",", "")
		field = strings.TrimRightFunc(field, func(r rune) bool { return !unicode.IsDigit(r) })
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return f
		}
	}
	return 0
}

// Flag is a bool that also accepts "true"/"false" strings and 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b, _ = strconv.ParseBool(strings.TrimSpace(s))
		*f = Flag(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	*f = false
	return nil
}

// FoodItem is a single dish inside a meal.
type FoodItem struct {
	Name       string `json:"name"`
	Cal        Number `json:"cal"`
	Carb       Number `json:"carb"`
	Fat        Number `json:"fat"`
	Protein    Number `json:"protein"`
	Img        string `json:"img"`
	Serving    string `json:"serving"`
	Source     string `json:"source"`
	IsUserFood Flag   `json:"isUserFood"`
}

// MealEntry is one meal of a planned day.
type MealEntry struct {
	Name     string     `json:"name"`
	Time     string     `json:"time"`
	TotalCal Number     `json:"totalCal"`
	Items    []FoodItem `json:"items"`
}

// DayPlan is one day of a plan keyed by meal key.
type DayPlan struct {
	TotalCal Number               `json:"totalCal"`
	Meals    map[string]MealEntry `json:"meals"`
}

// GeneratedPlan maps day numbers "1".."N" to their DayPlan.
type GeneratedPlan map[string]DayPlan

// DayKey returns the plan key for the 1-based day index.
func DayKey(day int) string {
	return strconv.Itoa(day)
}

// FoodSuggestion is the single-dish response shape.
type FoodSuggestion struct {
	Name        string   `json:"name"`
	Cal         Number   `json:"cal"`
	Carbs       Number   `json:"carbs"`
	Protein     Number   `json:"protein"`
	Fat         Number   `json:"fat"`
	Ingredients []string `json:"ingredients"`
	Serving     string   `json:"serving"`
}
