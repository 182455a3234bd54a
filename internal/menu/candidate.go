package menu

import (
	"fmt"
	"time"

	"crew-menu-planner/internal/catalog"
)

// ValidateCandidate checks the structural shape of an untrusted candidate:
// every day needs a date, a day label and array-typed meal fields, and the
// day count must match the request. Any failure invalidates the whole
// candidate; the orchestrator discards it and falls back.
func ValidateCandidate(c *RawCandidate, days int) error {
	if c == nil || len(c.Days) == 0 {
		return fmt.Errorf("%w: candidate has no days", ErrCandidateInvalid)
	}
	if len(c.Days) != days {
		return fmt.Errorf("%w: candidate has %d days, want %d", ErrCandidateInvalid, len(c.Days), days)
	}
	for i, day := range c.Days {
		if day.Date == "" {
			return fmt.Errorf("%w: day %d has no date", ErrCandidateInvalid, i)
		}
		if day.DayLabel == "" {
			return fmt.Errorf("%w: day %d has no day label", ErrCandidateInvalid, i)
		}
		// A nil slice means the field was missing or not an array.
		if day.Breakfast == nil || day.Lunch == nil || day.Dinner == nil {
			return fmt.Errorf("%w: day %d is missing a meal array", ErrCandidateInvalid, i)
		}
	}
	return nil
}

// NormalizeCandidate maps every token to a recipe ID where possible: first
// against the snapshot's IDs, then by exact recipe name. Unresolved tokens
// pass through unchanged for the repair stage.
func NormalizeCandidate(c *RawCandidate, snap *catalog.Snapshot) *RawCandidate {
	out := &RawCandidate{Days: make([]RawDay, len(c.Days))}
	for i, day := range c.Days {
		mapped := RawDay{Date: day.Date, DayLabel: day.DayLabel}
		for _, slot := range mealSlots {
			tokens := day.tokens(slot)
			resolved := make([]string, len(tokens))
			for j, token := range tokens {
				resolved[j] = resolveToken(token, snap)
			}
			mapped.setTokens(slot, resolved)
		}
		out.Days[i] = mapped
	}
	return out
}

func resolveToken(token string, snap *catalog.Snapshot) string {
	if snap.Has(token) {
		return token
	}
	if r, ok := snap.ByName(token); ok {
		return r.ID
	}
	return token
}

// RepairCandidate turns a normalized candidate into a plan with no dangling
// references. Tokens still unknown after normalization are substituted with
// a deterministic same-role recipe: the token's category is inferred from
// its slot position (first entry is the main, the trailing entry of a
// three-or-more lunch/dinner is the soup, anything else a side) and the
// replacement is picked from that category's cost-sorted list at
// (dayIndex + position) mod length, skipping recipes already in the day.
func RepairCandidate(c *RawCandidate, snap *catalog.Snapshot) *Plan {
	plan := &Plan{Source: SourceAI, Days: make([]DayPlan, 0, len(c.Days))}

	for i, raw := range c.Days {
		day := DayPlan{
			DayIndex: i,
			Date:     parseDate(raw.Date),
			DayLabel: raw.DayLabel,
		}

		usedInDay := make(map[string]bool)
		for _, slot := range mealSlots {
			tokens := raw.tokens(slot)
			meal := make([]catalog.Recipe, 0, len(tokens))
			for pos, token := range tokens {
				r, ok := snap.ByID(token)
				if !ok {
					r = fallbackRecipe(snap, i, pos, slot, len(tokens), usedInDay)
				}
				meal = append(meal, r)
				usedInDay[r.ID] = true
			}
			*day.Meals.Slot(slot) = meal
		}

		day.Recompute()
		plan.Days = append(plan.Days, day)
	}

	return plan
}

func inferCategory(slot MealSlot, position, tokenCount int) catalog.Category {
	if position == 0 {
		return catalog.CategoryMain
	}
	if slot != SlotBreakfast && tokenCount >= 3 && position == tokenCount-1 {
		return catalog.CategorySoup
	}
	return catalog.CategorySide
}

func fallbackRecipe(snap *catalog.Snapshot, dayIndex, position int, slot MealSlot, tokenCount int, usedInDay map[string]bool) catalog.Recipe {
	category := inferCategory(slot, position, tokenCount)
	list := snap.Category(category)
	if len(list) == 0 {
		// The orchestrator guarantees non-empty main/side/soup categories,
		// but a dessert token can still land here.
		list = snap.Category(catalog.CategorySide)
	}

	start := (dayIndex + position) % len(list)
	for offset := 0; offset < len(list); offset++ {
		r := list[(start+offset)%len(list)]
		if !usedInDay[r.ID] {
			return r
		}
	}
	return list[0]
}

func parseDate(raw string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
