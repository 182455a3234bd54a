package menu

import (
	"math"
	"sort"

	"crew-menu-planner/internal/catalog"
)

const defaultMinBudgetUsage = 0.90

// BudgetEnforcer pulls a plan's aggregate cost into the budget band with a
// single greedy sweep of category-preserving recipe swaps. It is not an
// exact solver: when the catalog lacks enough distinct-cost alternatives the
// plan may stay outside the band, which is reported, not retried.
type BudgetEnforcer struct {
	snap *catalog.Snapshot
}

// NewBudgetEnforcer creates an enforcer over a catalog snapshot.
func NewBudgetEnforcer(snap *catalog.Snapshot) *BudgetEnforcer {
	return &BudgetEnforcer{snap: snap}
}

// EnforceOutcome reports the achieved budget position after a sweep.
type EnforceOutcome struct {
	TotalCost    int
	MinBudget    int
	MaxBudget    int
	WithinBudget bool
	Swaps        int
}

// occurrence is a single recipe reference at (day, meal slot, position).
type occurrence struct {
	day      int
	slotIdx  int
	position int
	cost     int
}

// Enforce mutates the plan in place. Applying it to a plan already inside
// the band is a no-op, so the pass is idempotent.
func (e *BudgetEnforcer) Enforce(plan *Plan, req MenuRequest) EnforceOutcome {
	maxBudget := req.DailyBudgetPerPerson * req.Days
	minBudget := int(math.Floor(float64(maxBudget) * req.minBudgetUsage()))

	total := plan.TotalCost()
	outcome := EnforceOutcome{TotalCost: total, MinBudget: minBudget, MaxBudget: maxBudget}
	if total >= minBudget && total <= maxBudget {
		outcome.WithinBudget = true
		return outcome
	}

	used := make(map[string]bool)
	for d := range plan.Days {
		for _, slot := range mealSlots {
			for _, r := range *plan.Days[d].Meals.Slot(slot) {
				used[r.ID] = true
			}
		}
	}

	occurrences := collectOccurrences(plan)
	modified := make(map[int]bool)

	if total > maxBudget {
		// Most expensive occurrences first.
		sort.SliceStable(occurrences, func(i, j int) bool {
			if occurrences[i].cost != occurrences[j].cost {
				return occurrences[i].cost > occurrences[j].cost
			}
			return occurrenceBefore(occurrences[i], occurrences[j])
		})
		for _, occ := range occurrences {
			current := e.recipeAt(plan, occ)
			repl, ok := e.cheaperReplacement(current, used)
			if !ok {
				continue
			}
			e.substitute(plan, occ, repl, used, modified)
			outcome.Swaps++
			total -= current.CostPerServing - repl.CostPerServing
			if total <= maxBudget {
				break
			}
		}
	} else {
		// Cheapest occurrences first; raises must never cross maxBudget.
		sort.SliceStable(occurrences, func(i, j int) bool {
			if occurrences[i].cost != occurrences[j].cost {
				return occurrences[i].cost < occurrences[j].cost
			}
			return occurrenceBefore(occurrences[i], occurrences[j])
		})
		for _, occ := range occurrences {
			current := e.recipeAt(plan, occ)
			repl, ok := e.pricierReplacement(current, used, maxBudget-total)
			if !ok {
				continue
			}
			e.substitute(plan, occ, repl, used, modified)
			outcome.Swaps++
			total += repl.CostPerServing - current.CostPerServing
			if total >= minBudget {
				break
			}
		}
	}

	// One batch recompute for modified days only; incremental per-swap
	// updates would drift on partially applied meals.
	for d := range modified {
		plan.Days[d].Recompute()
	}

	outcome.TotalCost = plan.TotalCost()
	outcome.WithinBudget = outcome.TotalCost >= minBudget && outcome.TotalCost <= maxBudget
	return outcome
}

func collectOccurrences(plan *Plan) []occurrence {
	var occs []occurrence
	for d := range plan.Days {
		for slotIdx, slot := range mealSlots {
			for pos, r := range *plan.Days[d].Meals.Slot(slot) {
				occs = append(occs, occurrence{day: d, slotIdx: slotIdx, position: pos, cost: r.CostPerServing})
			}
		}
	}
	return occs
}

// occurrenceBefore is the deterministic tie-break for equal-cost
// occurrences: plan order.
func occurrenceBefore(a, b occurrence) bool {
	if a.day != b.day {
		return a.day < b.day
	}
	if a.slotIdx != b.slotIdx {
		return a.slotIdx < b.slotIdx
	}
	return a.position < b.position
}

func (e *BudgetEnforcer) recipeAt(plan *Plan, occ occurrence) catalog.Recipe {
	return (*plan.Days[occ.day].Meals.Slot(mealSlots[occ.slotIdx]))[occ.position]
}

// cheaperReplacement finds the cheapest same-category recipe strictly
// cheaper than current and unused anywhere in the plan. Category lists are
// cost-ascending, so the first hit wins.
func (e *BudgetEnforcer) cheaperReplacement(current catalog.Recipe, used map[string]bool) (catalog.Recipe, bool) {
	for _, r := range e.snap.Category(current.Category) {
		if r.CostPerServing >= current.CostPerServing {
			break
		}
		if used[r.ID] {
			continue
		}
		return r, true
	}
	return catalog.Recipe{}, false
}

// pricierReplacement finds the most expensive same-category unused recipe
// whose cost increase stays within headroom.
func (e *BudgetEnforcer) pricierReplacement(current catalog.Recipe, used map[string]bool, headroom int) (catalog.Recipe, bool) {
	list := e.snap.Category(current.Category)
	for i := len(list) - 1; i >= 0; i-- {
		r := list[i]
		if r.CostPerServing <= current.CostPerServing {
			break
		}
		if used[r.ID] {
			continue
		}
		if r.CostPerServing-current.CostPerServing > headroom {
			continue
		}
		return r, true
	}
	return catalog.Recipe{}, false
}

func (e *BudgetEnforcer) substitute(plan *Plan, occ occurrence, repl catalog.Recipe, used map[string]bool, modified map[int]bool) {
	slot := plan.Days[occ.day].Meals.Slot(mealSlots[occ.slotIdx])
	(*slot)[occ.position] = repl
	used[repl.ID] = true
	modified[occ.day] = true
}
