package menu

import (
	"time"

	"crew-menu-planner/internal/catalog"
)

// Per-meal share of the daily budget.
var mealBudgetShares = map[MealSlot]float64{
	SlotBreakfast: 0.20,
	SlotLunch:     0.35,
	SlotDinner:    0.45,
}

const (
	// Mains may take up to this share of a meal's budget.
	mainBudgetShare = 0.60

	// A soup may overrun the meal budget by at most this many currency
	// units; otherwise it is omitted.
	soupBudgetSlack = 50

	// Side counts per slot.
	breakfastSideCount   = 1
	lunchDinnerSideCount = 2

	// Nutrition policy thresholds applied to candidate mains.
	highProteinMinGrams = 30.0
	lowSaltMaxGrams     = 2.3
	highVolumeMinKcal   = 700.0
)

// RuleBasedGenerator is the deterministic fallback plan generator. It never
// calls out anywhere: given the same snapshot and request it always produces
// the same plan.
type RuleBasedGenerator struct {
	snap *catalog.Snapshot
}

// NewRuleBasedGenerator creates a generator over a catalog snapshot.
func NewRuleBasedGenerator(snap *catalog.Snapshot) *RuleBasedGenerator {
	return &RuleBasedGenerator{snap: snap}
}

// Generate builds a full plan for the request. The only failure mode is an
// empty main category, which the orchestrator is expected to have rejected
// already.
func (g *RuleBasedGenerator) Generate(req MenuRequest) (*Plan, error) {
	mains := g.snap.Category(catalog.CategoryMain)
	if len(mains) == 0 {
		return nil, &RequestValidationError{Reason: "catalog has no main dishes"}
	}

	policyMains := filterMainsByPolicy(mains, req.Policy)

	plan := &Plan{Source: SourceFallback, Days: make([]DayPlan, 0, req.Days)}

	// The last-chosen main rolls across the whole multi-day sequence, not
	// per day: threading it through the loop keeps buildDay pure.
	lastMainID := ""
	for i := 0; i < req.Days; i++ {
		date := req.StartDate.AddDate(0, 0, i)
		var day DayPlan
		day, lastMainID = g.buildDay(i, date, req.DailyBudgetPerPerson, mains, policyMains, lastMainID)
		plan.Days = append(plan.Days, day)
	}

	return plan, nil
}

// buildDay assembles one day and returns the updated last-main cursor.
func (g *RuleBasedGenerator) buildDay(
	dayIndex int,
	date time.Time,
	dailyBudget int,
	mains, policyMains []catalog.Recipe,
	lastMainID string,
) (DayPlan, string) {
	day := DayPlan{
		DayIndex: dayIndex,
		Date:     date,
		DayLabel: date.Weekday().String(),
	}

	for mealIndex, slot := range mealSlots {
		mealBudget := int(float64(dailyBudget) * mealBudgetShares[slot])

		main := pickMain(dayIndex, mealBudget, lastMainID, mains, policyMains)
		lastMainID = main.ID
		meal := []catalog.Recipe{main}
		spent := main.CostPerServing

		sideCount := lunchDinnerSideCount
		if slot == SlotBreakfast {
			sideCount = breakfastSideCount
		}
		for slotIndex := 0; slotIndex < sideCount; slotIndex++ {
			side, ok := pickSide(dayIndex, mealIndex, slotIndex, mealBudget-spent, meal, g.snap.Category(catalog.CategorySide))
			if !ok {
				continue
			}
			meal = append(meal, side)
			spent += side.CostPerServing
		}

		if soup, ok := pickSoup(dayIndex, mealIndex, mealBudget, spent, g.snap.Category(catalog.CategorySoup)); ok {
			meal = append(meal, soup)
			spent += soup.CostPerServing
		}

		*day.Meals.Slot(slot) = meal
	}

	day.Recompute()
	return day, lastMainID
}

// pickMain selects a main for one meal. The fallback chain guarantees a
// selection whenever the main category is non-empty: policy-filtered and
// affordable first, then unfiltered affordable, then any main other than the
// previous one, then the globally cheapest.
func pickMain(dayIndex, mealBudget int, lastMainID string, mains, policyMains []catalog.Recipe) catalog.Recipe {
	priceCap := int(float64(mealBudget) * mainBudgetShare)

	candidates := filterMains(policyMains, priceCap, lastMainID)
	if len(candidates) == 0 {
		candidates = filterMains(mains, priceCap, lastMainID)
	}
	if len(candidates) == 0 {
		candidates = filterMains(mains, 0, lastMainID)
	}
	if len(candidates) == 0 {
		return mains[0]
	}

	return candidates[dayIndex%len(candidates)]
}

// filterMains keeps mains within the price cap (0 disables the cap) and
// different from the previous main.
func filterMains(mains []catalog.Recipe, priceCap int, lastMainID string) []catalog.Recipe {
	var out []catalog.Recipe
	for _, r := range mains {
		if priceCap > 0 && r.CostPerServing > priceCap {
			continue
		}
		if r.ID == lastMainID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func pickSide(dayIndex, mealIndex, slotIndex, remaining int, meal []catalog.Recipe, sides []catalog.Recipe) (catalog.Recipe, bool) {
	var candidates []catalog.Recipe
	for _, r := range sides {
		if r.CostPerServing > remaining {
			continue
		}
		if containsRecipe(meal, r.ID) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return catalog.Recipe{}, false
	}
	return candidates[(dayIndex+mealIndex+slotIndex)%len(candidates)], true
}

// pickSoup adds at most one soup, tolerating a small fixed overrun of the
// meal budget.
func pickSoup(dayIndex, mealIndex, mealBudget, spent int, soups []catalog.Recipe) (catalog.Recipe, bool) {
	remaining := mealBudget - spent + soupBudgetSlack
	var candidates []catalog.Recipe
	for _, r := range soups {
		if r.CostPerServing <= remaining {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return catalog.Recipe{}, false
	}

	soup := candidates[(dayIndex+mealIndex)%len(candidates)]
	if spent+soup.CostPerServing > mealBudget+soupBudgetSlack {
		return catalog.Recipe{}, false
	}
	return soup, true
}

func filterMainsByPolicy(mains []catalog.Recipe, policy NutritionPolicy) []catalog.Recipe {
	var keep func(catalog.Recipe) bool
	switch policy {
	case PolicyHighProtein:
		keep = func(r catalog.Recipe) bool { return r.ProteinGrams >= highProteinMinGrams }
	case PolicyLowSalt:
		keep = func(r catalog.Recipe) bool { return r.SaltGrams <= lowSaltMaxGrams }
	case PolicyHighVolume:
		keep = func(r catalog.Recipe) bool { return r.Calories >= highVolumeMinKcal }
	default:
		return mains
	}

	var out []catalog.Recipe
	for _, r := range mains {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsRecipe(meal []catalog.Recipe, id string) bool {
	for _, r := range meal {
		if r.ID == id {
			return true
		}
	}
	return false
}
