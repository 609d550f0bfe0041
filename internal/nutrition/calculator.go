package nutrition

import (
	"math"
	"time"
)

const (
	// KcalPerKgBodyWeight is the energy content of one kilogram of body mass.
	KcalPerKgBodyWeight = 7700
	// GoalPacingDays is the fixed horizon used to turn a weight delta into a daily
	// calorie delta. It does not follow the requested plan duration.
	GoalPacingDays = 30
	// MinDecreaseCalories is the daily floor for weight-loss targets.
	MinDecreaseCalories = 1200

	defaultActivityMultiplier = 1.55
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivityLow:      1.2,
	ActivityModerate: 1.55,
	ActivityHigh:     1.725,
	ActivityVeryHigh: 1.9,
}

var proteinPerKg = map[Goal]float64{
	GoalIncrease: 1.8,
	GoalDecrease: 2.0,
	GoalHealthy:  1.4,
}

// carbShare is the fraction of non-protein calories given to carbohydrate; fat takes the rest.
var carbShare = map[Goal]float64{
	GoalIncrease: 0.65,
	GoalDecrease: 0.50,
	GoalHealthy:  0.60,
}

// ActivityMultiplier returns the TDEE multiplier for level, 1.55 when unknown.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

// CalculateBMR applies Mifflin-St Jeor. Every gender other than male uses the female constant.
func CalculateBMR(weight, height float64, age int, gender Gender) int {
	bmr := 10*weight + 6.25*height - 5*float64(age)
	if gender == GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr))
}

// CalculateTDEE scales BMR by the activity multiplier.
func CalculateTDEE(bmr int, level ActivityLevel) int {
	return int(math.Round(float64(bmr) * ActivityMultiplier(level)))
}

// CalculateTargetCalories shifts TDEE by the daily delta needed to move from the
// current to the target weight over GoalPacingDays.
func CalculateTargetCalories(tdee int, currentWeight, targetWeight float64, goal Goal) int {
	if goal != GoalIncrease && goal != GoalDecrease {
		return tdee
	}

	weightDifference := math.Abs(targetWeight - currentWeight)
	dailyDelta := weightDifference * KcalPerKgBodyWeight / GoalPacingDays

	target := float64(tdee)
	if goal == GoalIncrease {
		target += dailyDelta
	} else {
		target -= dailyDelta
		if target < MinDecreaseCalories {
			target = MinDecreaseCalories
		}
	}
	return int(math.Round(target))
}

// CalculateMacronutrients splits target calories into protein, carbohydrate and fat grams.
// Carb and fat are clamped at zero when protein alone exceeds the calorie target.
func CalculateMacronutrients(targetCalories int, goal Goal, targetWeight float64) Macros {
	perKg, ok := proteinPerKg[goal]
	if !ok {
		perKg = proteinPerKg[GoalHealthy]
	}
	ratio, ok := carbShare[goal]
	if !ok {
		ratio = carbShare[GoalHealthy]
	}

	protein := int(math.Round(targetWeight * perKg))
	remaining := float64(targetCalories - protein*4)
	if remaining < 0 {
		remaining = 0
	}

	return Macros{
		Protein: protein,
		Carb:    int(math.Round(remaining * ratio / 4)),
		Fat:     int(math.Round(remaining * (1 - ratio) / 9)),
	}
}

// ValidateProfile checks the fields the calculator cannot run without.
func ValidateProfile(p UserProfileData) error {
	switch {
	case !(p.Weight > 0) || math.IsInf(p.Weight, 0):
		return &ConfigurationError{Field: "weight", Reason: "must be a positive number"}
	case !(p.Height > 0) || math.IsInf(p.Height, 0):
		return &ConfigurationError{Field: "height", Reason: "must be a positive number"}
	case p.Age <= 0:
		return &ConfigurationError{Field: "age", Reason: "must be a positive number of years"}
	case !(p.TargetWeight > 0) || math.IsInf(p.TargetWeight, 0):
		return &ConfigurationError{Field: "target_weight", Reason: "must be a positive number"}
	}
	return nil
}

// Recommend runs the full calculator chain for a validated profile.
func Recommend(p UserProfileData) (RecommendedNutrition, error) {
	if err := ValidateProfile(p); err != nil {
		return RecommendedNutrition{}, err
	}

	bmr := CalculateBMR(p.Weight, p.Height, p.Age, p.Gender)
	tdee := CalculateTDEE(bmr, p.ActivityLevel)
	cal := CalculateTargetCalories(tdee, p.Weight, p.TargetWeight, p.TargetGoal)
	macros := CalculateMacronutrients(cal, p.TargetGoal, p.TargetWeight)

	return RecommendedNutrition{
		Cal:     cal,
		Protein: macros.Protein,
		Carb:    macros.Carb,
		Fat:     macros.Fat,
		BMR:     bmr,
		TDEE:    tdee,
	}, nil
}

// AgeFromBirthYear converts a stored birth year to an age in years. Before June the
// birthday is assumed not to have happened yet, so one more year is subtracted.
func AgeFromBirthYear(birthYear int, now time.Time) int {
	age := now.Year() - birthYear
	if now.Month() < time.June {
		age--
	}
	return age
}
