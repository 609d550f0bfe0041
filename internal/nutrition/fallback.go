package nutrition

import "math"

// FallbackOptions optionally carries the request's allocation and canonical meal times.
// Zero values fall back to 30/40/30 and 07:00/12:00/18:00.
type FallbackOptions struct {
	Allocation     MealAllocation
	CanonicalTimes map[string]string
}

type fallbackFood struct {
	name    string
	serving string
}

func (f fallbackFood) item(rec RecommendedNutrition, share float64) FoodItem {
	return FoodItem{
		Name:    f.name,
		Cal:     scaled(rec.Cal, share),
		Carb:    scaled(rec.Carb, share),
		Fat:     scaled(rec.Fat, share),
		Protein: scaled(rec.Protein, share),
		Serving: f.serving,
		Source:  SourceAI,
	}
}

var fallbackFoods = map[string]fallbackFood{
	MealBreakfast: {name: "ข้าวต้มไก่", serving: "1 ชาม (350 กรัม)"},
	MealLunch:     {name: "ข้าวกะเพราไก่", serving: "1 จาน (300 กรัม)"},
	MealDinner:    {name: "ปลานึ่งมะนาวกับข้าวกล้อง", serving: "1 จาน (320 กรัม)"},
}

var snackFood = fallbackFood{name: "ผลไม้รวม", serving: "1 ถ้วย (150 กรัม)"}

// SynthesizeFallbackPlan builds a plan from the targets alone. Every day is identical:
// breakfast, lunch and dinner with one fixed dish each, whose calories and macros are the
// day's targets scaled by the meal's share. Custom meals are not represented. The function
// is total: any day count below one yields a single day.
func SynthesizeFallbackPlan(rec RecommendedNutrition, days int, opts FallbackOptions) GeneratedPlan {
	if days < 1 {
		days = 1
	}
	shares := fallbackShares(opts.Allocation)
	times := DefaultCanonicalTimes()
	for k, t := range opts.CanonicalTimes {
		if IsCanonicalKey(k) && t != "" {
			times[k] = t
		}
	}

	plan := make(GeneratedPlan, days)
	for d := 1; d <= days; d++ {
		day := DayPlan{
			TotalCal: Number(rec.Cal),
			Meals:    make(map[string]MealEntry, len(canonicalMeals)),
		}
		for _, c := range canonicalMeals {
			item := fallbackFoods[c.key].item(rec, shares[c.key])
			day.Meals[c.key] = MealEntry{
				Name:     c.name,
				Time:     times[c.key],
				TotalCal: item.Cal,
				Items:    []FoodItem{item},
			}
		}
		plan[DayKey(d)] = day
	}
	return plan
}

// fallbackShares renormalizes the canonical part of an allocation. An allocation that
// does not cover all three canonical meals is ignored.
func fallbackShares(allocation MealAllocation) map[string]float64 {
	shares := make(map[string]float64, len(canonicalShares))
	sum := 0
	complete := true
	for _, key := range CanonicalKeys() {
		v, ok := allocation[key]
		if !ok || v < 0 {
			complete = false
			break
		}
		sum += v
	}
	if !complete || sum == 0 {
		for k, v := range canonicalShares {
			shares[k] = v
		}
		return shares
	}
	for _, key := range CanonicalKeys() {
		shares[key] = float64(allocation[key]) / float64(sum)
	}
	return shares
}

func scaled(value int, share float64) Number {
	return Number(math.Round(float64(value) * share))
}
