package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/menu"
)

func TestBuildProcurementList(t *testing.T) {
	curry := catalog.Recipe{ID: "m-curry", Category: catalog.CategoryMain, IngredientIDs: []string{"chicken", "rice", "onion"}}
	salad := catalog.Recipe{ID: "s-salad", Category: catalog.CategorySide, IngredientIDs: []string{"lettuce", "onion"}}
	miso := catalog.Recipe{ID: "p-miso", Category: catalog.CategorySoup, IngredientIDs: []string{"tofu"}}

	plan := &menu.Plan{Days: []menu.DayPlan{
		{Meals: menu.Meals{Breakfast: []catalog.Recipe{curry}, Lunch: []catalog.Recipe{salad, miso}}},
		{Meals: menu.Meals{Dinner: []catalog.Recipe{curry}}},
	}}

	items := BuildProcurementList(plan, 4)

	assert.Equal(t, []Item{
		{IngredientID: "chicken", Servings: 8},
		{IngredientID: "lettuce", Servings: 4},
		{IngredientID: "onion", Servings: 12},
		{IngredientID: "rice", Servings: 8},
		{IngredientID: "tofu", Servings: 4},
	}, items)
}

func TestBuildProcurementListEmptyPlan(t *testing.T) {
	items := BuildProcurementList(&menu.Plan{}, 4)
	assert.Empty(t, items)
}
