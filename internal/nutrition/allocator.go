package nutrition

import "math"

const (
	// maxCustomShare caps a single custom meal's share of the day.
	maxCustomShare = 0.10
	// customPoolShare is what all custom meals together may claim before renormalization.
	customPoolShare = 0.20
)

var canonicalShares = map[string]float64{
	MealBreakfast: 0.30,
	MealLunch:     0.40,
	MealDinner:    0.30,
}

// MealShares returns each meal's normalized fraction of the day. Shares always sum
// to 1 when at least one meal is given; an absent canonical meal simply drops out.
func MealShares(meals []MealDefinition) map[string]float64 {
	customCount := 0
	for _, m := range meals {
		if !isCanonicalMeal(m) {
			customCount++
		}
	}

	customShare := 0.0
	if customCount > 0 {
		customShare = math.Min(maxCustomShare, customPoolShare/float64(customCount))
	}

	shares := make(map[string]float64, len(meals))
	sum := 0.0
	for _, m := range meals {
		share := customShare
		if isCanonicalMeal(m) {
			share = canonicalShares[m.Key]
		}
		shares[m.Key] = share
		sum += share
	}

	if sum > 0 {
		for k, v := range shares {
			shares[k] = v / sum
		}
	}
	return shares
}

// AllocateEnergy splits the daily target across meals. Each allocation is rounded on
// its own, so the total can differ from dailyCalories by at most the number of meals.
func AllocateEnergy(dailyCalories int, meals []MealDefinition) MealAllocation {
	allocation := make(MealAllocation, len(meals))
	for key, share := range MealShares(meals) {
		kcal := int(math.Round(share * float64(dailyCalories)))
		if kcal < 0 {
			kcal = 0
		}
		allocation[key] = kcal
	}
	return allocation
}

func isCanonicalMeal(m MealDefinition) bool {
	return m.IsDefault && IsCanonicalKey(m.Key)
}
