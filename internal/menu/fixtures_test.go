package menu

import (
	"fmt"
	"time"

	"crew-menu-planner/internal/catalog"
)

// testCatalog is a small, varied catalog used across the package tests.
func testCatalog() []catalog.Recipe {
	return []catalog.Recipe{
		{ID: "m-curry", Name: "Chicken Curry", Category: catalog.CategoryMain, Calories: 800, ProteinGrams: 35, SaltGrams: 2.0, CostPerServing: 120},
		{ID: "m-grill", Name: "Grilled Chicken", Category: catalog.CategoryMain, Calories: 650, ProteinGrams: 40, SaltGrams: 1.8, CostPerServing: 140},
		{ID: "m-stew", Name: "Beef Stew", Category: catalog.CategoryMain, Calories: 750, ProteinGrams: 28, SaltGrams: 3.0, CostPerServing: 200},
		{ID: "m-fish", Name: "Baked Salmon", Category: catalog.CategoryMain, Calories: 600, ProteinGrams: 32, SaltGrams: 2.5, CostPerServing: 260},
		{ID: "m-roast", Name: "Pork Roast", Category: catalog.CategoryMain, Calories: 900, ProteinGrams: 45, SaltGrams: 2.2, CostPerServing: 320},
		{ID: "s-pickle", Name: "Pickled Vegetables", Category: catalog.CategorySide, Calories: 40, ProteinGrams: 1, SaltGrams: 1.2, CostPerServing: 40},
		{ID: "s-salad", Name: "Green Salad", Category: catalog.CategorySide, Calories: 90, ProteinGrams: 2, SaltGrams: 0.3, CostPerServing: 60},
		{ID: "s-slaw", Name: "Coleslaw", Category: catalog.CategorySide, Calories: 150, ProteinGrams: 2, SaltGrams: 0.5, CostPerServing: 80},
		{ID: "s-beans", Name: "Braised Beans", Category: catalog.CategorySide, Calories: 220, ProteinGrams: 9, SaltGrams: 0.8, CostPerServing: 120},
		{ID: "p-miso", Name: "Miso Soup", Category: catalog.CategorySoup, Calories: 60, ProteinGrams: 4, SaltGrams: 1.5, CostPerServing: 50},
		{ID: "p-tomato", Name: "Tomato Soup", Category: catalog.CategorySoup, Calories: 120, ProteinGrams: 3, SaltGrams: 1.0, CostPerServing: 90},
	}
}

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(testCatalog(), catalog.Filter{})
}

// priceLadderCatalog builds a catalog with evenly spaced costs per category,
// so budget-sweep tests always have distinct-cost alternatives.
func priceLadderCatalog() []catalog.Recipe {
	var recipes []catalog.Recipe
	for i := 1; i <= 10; i++ {
		cost := i * 100
		recipes = append(recipes, catalog.Recipe{
			ID:             fmt.Sprintf("main-%04d", cost),
			Name:           fmt.Sprintf("Main %d", cost),
			Category:       catalog.CategoryMain,
			Calories:       700,
			ProteinGrams:   30,
			SaltGrams:      2,
			CostPerServing: cost,
		})
	}
	for i := 1; i <= 10; i++ {
		cost := i * 50
		recipes = append(recipes, catalog.Recipe{
			ID:             fmt.Sprintf("side-%04d", cost),
			Name:           fmt.Sprintf("Side %d", cost),
			Category:       catalog.CategorySide,
			Calories:       100,
			ProteinGrams:   3,
			SaltGrams:      0.5,
			CostPerServing: cost,
		})
	}
	for i := 1; i <= 5; i++ {
		cost := i * 30
		recipes = append(recipes, catalog.Recipe{
			ID:             fmt.Sprintf("soup-%04d", cost),
			Name:           fmt.Sprintf("Soup %d", cost),
			Category:       catalog.CategorySoup,
			Calories:       80,
			ProteinGrams:   4,
			SaltGrams:      1,
			CostPerServing: cost,
		})
	}
	return recipes
}

func testRequest(days, budget int) MenuRequest {
	return MenuRequest{
		CrewCount:            4,
		Days:                 days,
		DailyBudgetPerPerson: budget,
		Policy:               PolicyBalanced,
		StartDate:            time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), // a Monday
	}
}

// mustRecipe panics on an unknown fixture ID; tests only.
func mustRecipe(snap *catalog.Snapshot, id string) catalog.Recipe {
	r, ok := snap.ByID(id)
	if !ok {
		panic("unknown fixture recipe: " + id)
	}
	return r
}
