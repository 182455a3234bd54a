package menu

import "math"

// Nutrition targets for a single day.
const (
	calorieTarget     = 2400.0
	calorieTolerance  = 0.2
	calorieMaxPenalty = 35.0

	proteinFloorGrams = 70.0
	proteinSpanGrams  = 25.0
	proteinMaxPenalty = 35.0

	saltCeilingGrams = 12.0
	saltSpanGrams    = 6.0
	saltMaxPenalty   = 30.0
)

// Score rates a day's nutrition totals on a 0-100 scale. Deviation from the
// calorie target beyond the tolerance band, protein below the floor and salt
// above the ceiling each carve off a bounded penalty.
func Score(calories, protein, salt float64) int {
	calPenalty := clamp(((math.Abs(calories-calorieTarget)-calorieTolerance*calorieTarget)/calorieTarget)*calorieMaxPenalty, 0, calorieMaxPenalty)

	proteinPenalty := 0.0
	if protein < proteinFloorGrams {
		proteinPenalty = clamp(((proteinFloorGrams-protein)/proteinSpanGrams)*proteinMaxPenalty, 0, proteinMaxPenalty)
	}

	saltPenalty := 0.0
	if salt > saltCeilingGrams {
		saltPenalty = clamp(((salt-saltCeilingGrams)/saltSpanGrams)*saltMaxPenalty, 0, saltMaxPenalty)
	}

	return int(math.Round(clamp(100-(calPenalty+proteinPenalty+saltPenalty), 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
