package menu

import (
	"fmt"
	"strconv"
)

// candidateShape is the closed set of response shapes a provider may hand
// back after unwrapping.
type candidateShape int

const (
	shapeUnrecognized candidateShape = iota
	shapeDays
	shapePlanArray
)

// wrapperKeys is the ordered list of wrapper keys providers are known to
// nest their payload under. "validation" is the validation-wrapper
// indirection; maxUnwrapDepth bounds how far the search descends.
var wrapperKeys = []string{"result", "output", "data", "response", "payload", "menu", "validation"}

const maxUnwrapDepth = 3

// unwrapCandidate searches a decoded response for one of the known shapes
// and converts it to a RawCandidate. The zero shape means the search
// exhausted every wrapper without finding a plan.
func unwrapCandidate(node map[string]any) (*RawCandidate, candidateShape) {
	return unwrap(node, 0)
}

func unwrap(node map[string]any, depth int) (*RawCandidate, candidateShape) {
	if days, ok := node["days"].([]any); ok {
		return daysToCandidate(days), shapeDays
	}
	if entries, ok := node["plan"].([]any); ok {
		return planArrayToCandidate(entries), shapePlanArray
	}

	if depth >= maxUnwrapDepth {
		return nil, shapeUnrecognized
	}
	for _, key := range wrapperKeys {
		child, ok := node[key].(map[string]any)
		if !ok {
			continue
		}
		if cand, shape := unwrap(child, depth+1); shape != shapeUnrecognized {
			return cand, shape
		}
	}
	return nil, shapeUnrecognized
}

// daysToCandidate converts the canonical {days:[...]} shape. A meal field
// that is missing or not an array stays nil, which the validator rejects.
func daysToCandidate(days []any) *RawCandidate {
	cand := &RawCandidate{}
	for _, entry := range days {
		m, ok := entry.(map[string]any)
		if !ok {
			cand.Days = append(cand.Days, RawDay{})
			continue
		}
		day := RawDay{
			Date:     stringField(m, "date"),
			DayLabel: stringField(m, "dayLabel"),
		}
		if day.DayLabel == "" {
			day.DayLabel = stringField(m, "day_label")
		}
		day.Breakfast = tokenArray(m["breakfast"])
		day.Lunch = tokenArray(m["lunch"])
		day.Dinner = tokenArray(m["dinner"])
		cand.Days = append(cand.Days, day)
	}
	return cand
}

// planArrayToCandidate translates the alternative plan-array shape, where
// each entry carries {date, meals:{breakfast:{recipe_ids:[...]}}}. A
// missing day label is synthesized from the date's weekday.
func planArrayToCandidate(entries []any) *RawCandidate {
	cand := &RawCandidate{}
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			cand.Days = append(cand.Days, RawDay{})
			continue
		}
		day := RawDay{
			Date:     stringField(m, "date"),
			DayLabel: stringField(m, "dayLabel"),
		}
		if day.DayLabel == "" {
			day.DayLabel = weekdayLabel(day.Date)
		}
		if meals, ok := m["meals"].(map[string]any); ok {
			day.Breakfast = mealRecipeIDs(meals, "breakfast")
			day.Lunch = mealRecipeIDs(meals, "lunch")
			day.Dinner = mealRecipeIDs(meals, "dinner")
		}
		cand.Days = append(cand.Days, day)
	}
	return cand
}

func mealRecipeIDs(meals map[string]any, slot string) []string {
	m, ok := meals[slot].(map[string]any)
	if !ok {
		return nil
	}
	return tokenArray(m["recipe_ids"])
}

// tokenArray coerces a decoded JSON array into string tokens. Numeric
// tokens (stale integer IDs) are rendered as their decimal string. Non-array
// input yields nil so the validator can tell it apart from an empty meal.
func tokenArray(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	tokens := make([]string, 0, len(arr))
	for _, item := range arr {
		switch t := item.(type) {
		case string:
			tokens = append(tokens, t)
		case float64:
			tokens = append(tokens, strconv.FormatFloat(t, 'f', -1, 64))
		default:
			tokens = append(tokens, fmt.Sprintf("%v", t))
		}
	}
	return tokens
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func weekdayLabel(date string) string {
	t := parseDate(date)
	if t.IsZero() {
		return ""
	}
	return t.Weekday().String()
}
