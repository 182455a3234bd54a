package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePerfectDay(t *testing.T) {
	assert.Equal(t, 100, Score(2400, 70, 12))
	assert.Equal(t, 100, Score(2400, 70, 0))
	assert.Equal(t, 100, Score(2400, 120, 5))
}

func TestScoreWithinCalorieTolerance(t *testing.T) {
	// ±20% around 2400 kcal carries no calorie penalty.
	assert.Equal(t, 100, Score(2880, 70, 12))
	assert.Equal(t, 100, Score(1920, 70, 12))
}

func TestScorePenalties(t *testing.T) {
	cases := []struct {
		name     string
		calories float64
		protein  float64
		salt     float64
		want     int
	}{
		// 3360 kcal: (|3360-2400| - 480)/2400 * 35 = 7
		{"calorie overshoot", 3360, 70, 12, 93},
		// 45g protein: (70-45)/25 * 35 = 35, full penalty
		{"protein floor", 2400, 45, 12, 65},
		// 15g salt: (15-12)/6 * 30 = 15
		{"salt overshoot", 2400, 70, 15, 85},
		// stacked penalties
		{"all three", 3360, 45, 15, 43},
		{"zero everything", 0, 0, 0, 37},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.calories, tc.protein, tc.salt))
		})
	}
}

func TestScoreBounded(t *testing.T) {
	inputs := []struct{ calories, protein, salt float64 }{
		{0, 0, 0},
		{100000, 0, 1000},
		{2400, 70, 12},
		{1, 1, 1},
		{50000, 500, 0.1},
	}

	for _, in := range inputs {
		got := Score(in.calories, in.protein, in.salt)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}
