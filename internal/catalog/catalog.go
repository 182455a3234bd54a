package catalog

import (
	"sort"
)

// Category classifies a recipe's role within a meal.
type Category string

const (
	CategoryMain    Category = "main"
	CategorySide    Category = "side"
	CategorySoup    Category = "soup"
	CategoryDessert Category = "dessert"
)

// Recipe is a single catalog entry. Reference data, read-only for the
// duration of a planning run.
type Recipe struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Category           Category `json:"category"`
	Calories           float64  `json:"calories"`
	ProteinGrams       float64  `json:"protein_grams"`
	SaltGrams          float64  `json:"salt_grams"`
	CostPerServing     int      `json:"cost_per_serving"`
	CookingTimeMinutes int      `json:"cooking_time_minutes"`
	IngredientIDs      []string `json:"ingredient_ids,omitempty"`
	Seasons            []string `json:"seasons,omitempty"`
}

// InSeason reports whether the recipe is eligible for the given season.
// A recipe without season tags is eligible year-round.
func (r Recipe) InSeason(season string) bool {
	if season == "" || len(r.Seasons) == 0 {
		return true
	}
	for _, s := range r.Seasons {
		if s == season {
			return true
		}
	}
	return false
}

// Filter narrows a catalog to the recipes eligible for one planning run.
type Filter struct {
	ExcludedIngredientIDs []string
	Season                string
	MaxCookingTimeMinutes int
}

func (f Filter) allows(r Recipe) bool {
	if f.MaxCookingTimeMinutes > 0 && r.CookingTimeMinutes > f.MaxCookingTimeMinutes {
		return false
	}
	if !r.InSeason(f.Season) {
		return false
	}
	for _, banned := range f.ExcludedIngredientIDs {
		for _, ing := range r.IngredientIDs {
			if ing == banned {
				return false
			}
		}
	}
	return true
}

// Snapshot is the immutable per-run view of the recipe catalog. It is built
// once at run start; concurrent catalog writers cannot affect an in-flight
// run.
type Snapshot struct {
	recipes    []Recipe
	byID       map[string]Recipe
	byName     map[string]Recipe
	byCategory map[Category][]Recipe
}

// NewSnapshot builds a snapshot from the given recipes, dropping the ones
// the filter rejects. Per-category lists are sorted by cost, then ID, so
// every index-based selection downstream is deterministic.
func NewSnapshot(recipes []Recipe, filter Filter) *Snapshot {
	s := &Snapshot{
		byID:       make(map[string]Recipe),
		byName:     make(map[string]Recipe),
		byCategory: make(map[Category][]Recipe),
	}

	for _, r := range recipes {
		if !filter.allows(r) {
			continue
		}
		s.recipes = append(s.recipes, r)
		s.byID[r.ID] = r
		s.byName[r.Name] = r
		s.byCategory[r.Category] = append(s.byCategory[r.Category], r)
	}

	for cat := range s.byCategory {
		list := s.byCategory[cat]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CostPerServing != list[j].CostPerServing {
				return list[i].CostPerServing < list[j].CostPerServing
			}
			return list[i].ID < list[j].ID
		})
	}

	return s
}

// Recipes returns every eligible recipe in the snapshot.
func (s *Snapshot) Recipes() []Recipe {
	return s.recipes
}

// Len returns the number of eligible recipes.
func (s *Snapshot) Len() int {
	return len(s.recipes)
}

// ByID looks a recipe up by its identifier.
func (s *Snapshot) ByID(id string) (Recipe, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// ByName looks a recipe up by its exact name.
func (s *Snapshot) ByName(name string) (Recipe, bool) {
	r, ok := s.byName[name]
	return r, ok
}

// Has reports whether the snapshot contains a recipe with the given ID.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Category returns the snapshot's recipes of one category, sorted ascending
// by cost. Callers must not mutate the returned slice.
func (s *Snapshot) Category(cat Category) []Recipe {
	return s.byCategory[cat]
}

// IDs returns the identifiers of every eligible recipe.
func (s *Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.recipes))
	for _, r := range s.recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
