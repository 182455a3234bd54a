package shopping

import (
	"sort"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/menu"
)

// Item is one line of a procurement list: an ingredient and the number of
// servings the crew needs it for across the plan.
type Item struct {
	IngredientID string `json:"ingredient_id"`
	Servings     int    `json:"servings"`
}

// BuildProcurementList folds a plan into per-ingredient serving counts
// scaled by crew size. Output is sorted by ingredient ID.
func BuildProcurementList(plan *menu.Plan, crewCount int) []Item {
	counts := make(map[string]int)
	for d := range plan.Days {
		day := &plan.Days[d]
		for _, meal := range [][]catalog.Recipe{day.Meals.Breakfast, day.Meals.Lunch, day.Meals.Dinner} {
			for _, r := range meal {
				for _, ing := range r.IngredientIDs {
					counts[ing] += crewCount
				}
			}
		}
	}

	items := make([]Item, 0, len(counts))
	for ing, servings := range counts {
		items = append(items, Item{IngredientID: ing, Servings: servings})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].IngredientID < items[j].IngredientID })
	return items
}
