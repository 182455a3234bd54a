package menu

import (
	"time"

	"crew-menu-planner/internal/catalog"
)

// NutritionPolicy steers the rule-based generator's choice of main dishes
// and is forwarded to the AI provider.
type NutritionPolicy string

const (
	PolicyBalanced    NutritionPolicy = "balanced"
	PolicyHighProtein NutritionPolicy = "high-protein"
	PolicyLowSalt     NutritionPolicy = "low-salt"
	PolicyHighVolume  NutritionPolicy = "high-volume"
)

// MealSlot is one of the three meals within a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// mealSlots fixes the in-day ordering. The slot's index doubles as the
// mealIndex used by the deterministic selection formulas.
var mealSlots = [...]MealSlot{SlotBreakfast, SlotLunch, SlotDinner}

// Constraints are the optional narrowing rules of a menu request.
type Constraints struct {
	ExcludedIngredientIDs []string          `json:"excluded_ingredient_ids,omitempty"`
	Season                string            `json:"season,omitempty"`
	DayOfWeekRules        map[string]string `json:"day_of_week_rules,omitempty"`
	MaxCookingTimeMinutes int               `json:"max_cooking_time_minutes,omitempty"`
}

// MenuRequest describes one planning run.
type MenuRequest struct {
	CrewCount            int             `json:"crew_count" validate:"min=1"`
	Days                 int             `json:"days" validate:"min=1"`
	DailyBudgetPerPerson int             `json:"daily_budget_per_person" validate:"gt=0"`
	Policy               NutritionPolicy `json:"policy" validate:"oneof=balanced high-protein low-salt high-volume"`
	StartDate            time.Time       `json:"start_date"`
	Constraints          Constraints     `json:"constraints"`

	// MinBudgetUsage overrides the default lower edge of the budget band.
	// Zero means the default (0.90).
	MinBudgetUsage float64 `json:"min_budget_usage,omitempty" validate:"gte=0,lte=1"`
}

func (r MenuRequest) minBudgetUsage() float64 {
	if r.MinBudgetUsage == 0 {
		return defaultMinBudgetUsage
	}
	return r.MinBudgetUsage
}

// NutritionTotals are a day's summed nutrition and cost. Always derived
// from the day's current meals, never stored independently.
type NutritionTotals struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	SaltGrams    float64 `json:"salt_grams"`
	Cost         int     `json:"cost"`
}

// Meals holds the ordered recipe sequences of one day.
type Meals struct {
	Breakfast []catalog.Recipe `json:"breakfast"`
	Lunch     []catalog.Recipe `json:"lunch"`
	Dinner    []catalog.Recipe `json:"dinner"`
}

// Slot returns a pointer to the sequence for the given slot, so callers can
// substitute occurrences in place.
func (m *Meals) Slot(slot MealSlot) *[]catalog.Recipe {
	switch slot {
	case SlotBreakfast:
		return &m.Breakfast
	case SlotLunch:
		return &m.Lunch
	default:
		return &m.Dinner
	}
}

// DayPlan is the plan for a single day.
type DayPlan struct {
	DayIndex    int             `json:"day_index"`
	Date        time.Time       `json:"date"`
	DayLabel    string          `json:"day_label"`
	Meals       Meals           `json:"meals"`
	Totals      NutritionTotals `json:"totals"`
	HealthScore int             `json:"health_score"`
}

// Recompute rebuilds the day's totals and health score from its current
// meals. Every mutation of Meals must be followed by a Recompute before the
// day is surfaced.
func (d *DayPlan) Recompute() {
	totals := NutritionTotals{}
	for _, slot := range mealSlots {
		for _, r := range *d.Meals.Slot(slot) {
			totals.Calories += r.Calories
			totals.ProteinGrams += r.ProteinGrams
			totals.SaltGrams += r.SaltGrams
			totals.Cost += r.CostPerServing
		}
	}
	d.Totals = totals
	d.HealthScore = Score(totals.Calories, totals.ProteinGrams, totals.SaltGrams)
}

// PlanSource records which pipeline stage produced the plan.
type PlanSource string

const (
	SourceAI       PlanSource = "ai"
	SourceFallback PlanSource = "fallback"
)

// Plan is a full multi-day menu, one DayPlan per requested day.
type Plan struct {
	ID     string     `json:"id"`
	Source PlanSource `json:"source"`
	Days   []DayPlan  `json:"days"`
}

// TotalCost sums the per-day costs. Per-person: the crew multiplier only
// matters to procurement.
func (p *Plan) TotalCost() int {
	total := 0
	for i := range p.Days {
		total += p.Days[i].Totals.Cost
	}
	return total
}

// PlanResult is what the orchestrator hands back to the caller: the plan
// plus the achieved budget outcome. A band miss is reported here, never as
// an error.
type PlanResult struct {
	Plan         *Plan `json:"plan"`
	TotalCost    int   `json:"total_cost"`
	MinBudget    int   `json:"min_budget"`
	MaxBudget    int   `json:"max_budget"`
	WithinBudget bool  `json:"within_budget"`
}

// RawCandidate is the untrusted plan shape proposed by an AI backend.
// Tokens may be stale IDs or recipe names; a nil slot slice means the field
// was missing or not an array.
type RawCandidate struct {
	Days []RawDay
}

// RawDay is one untrusted day entry.
type RawDay struct {
	Date      string
	DayLabel  string
	Breakfast []string
	Lunch     []string
	Dinner    []string
}

func (d *RawDay) tokens(slot MealSlot) []string {
	switch slot {
	case SlotBreakfast:
		return d.Breakfast
	case SlotLunch:
		return d.Lunch
	default:
		return d.Dinner
	}
}

func (d *RawDay) setTokens(slot MealSlot, tokens []string) {
	switch slot {
	case SlotBreakfast:
		d.Breakfast = tokens
	case SlotLunch:
		d.Lunch = tokens
	default:
		d.Dinner = tokens
	}
}
