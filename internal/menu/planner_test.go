package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/llm"
)

type stubGenerator struct {
	cand  *RawCandidate
	usage llm.TokenUsage
	err   error
	calls int
}

func (s *stubGenerator) Propose(ctx context.Context, req MenuRequest, snap *catalog.Snapshot) (*RawCandidate, llm.TokenUsage, error) {
	s.calls++
	return s.cand, s.usage, s.err
}

func TestGeneratePlanRejectsInvalidRequest(t *testing.T) {
	p := NewPlanner(nil, zap.NewNop())

	cases := map[string]MenuRequest{
		"zero crew":      {CrewCount: 0, Days: 3, DailyBudgetPerPerson: 1200},
		"zero days":      {CrewCount: 4, Days: 0, DailyBudgetPerPerson: 1200},
		"zero budget":    {CrewCount: 4, Days: 3, DailyBudgetPerPerson: 0},
		"unknown policy": {CrewCount: 4, Days: 3, DailyBudgetPerPerson: 1200, Policy: "keto"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.GeneratePlan(context.Background(), req, testCatalog())
			var valErr *RequestValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}
}

func TestGeneratePlanRejectsEmptyCategory(t *testing.T) {
	p := NewPlanner(nil, zap.NewNop())

	var noSoups []catalog.Recipe
	for _, r := range testCatalog() {
		if r.Category != catalog.CategorySoup {
			noSoups = append(noSoups, r)
		}
	}

	_, err := p.GeneratePlan(context.Background(), testRequest(3, 1200), noSoups)
	var valErr *RequestValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Reason, "soup")
}

func TestGeneratePlanNilGeneratorUsesFallback(t *testing.T) {
	p := NewPlanner(nil, zap.NewNop())

	result, err := p.GeneratePlan(context.Background(), testRequest(3, 1200), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Plan.Source)
	assert.Len(t, result.Plan.Days, 3)
	assert.NotEmpty(t, result.Plan.ID)
}

func TestGeneratePlanGeneratorErrorFallsBack(t *testing.T) {
	gen := &stubGenerator{err: &ProviderError{Provider: "test", Err: errors.New("timeout")}}
	p := NewPlanner(gen, zap.NewNop())

	result, err := p.GeneratePlan(context.Background(), testRequest(2, 1200), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, SourceFallback, result.Plan.Source)
}

func TestGeneratePlanInvalidCandidateFallsBack(t *testing.T) {
	// Wrong day count: candidate has one day, request wants two.
	gen := &stubGenerator{cand: &RawCandidate{Days: []RawDay{
		{Date: "2025-01-06", DayLabel: "Monday", Breakfast: []string{"m-curry"}, Lunch: []string{"m-grill"}, Dinner: []string{"m-stew"}},
	}}}
	p := NewPlanner(gen, zap.NewNop())

	result, err := p.GeneratePlan(context.Background(), testRequest(2, 1200), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Plan.Source)
}

func TestGeneratePlanAcceptsValidCandidate(t *testing.T) {
	gen := &stubGenerator{
		cand: &RawCandidate{Days: []RawDay{
			{
				Date:      "2025-01-06",
				DayLabel:  "Monday",
				Breakfast: []string{"m-curry"},
				Lunch:     []string{"m-grill", "s-salad", "p-miso"},
				Dinner:    []string{"m-stew", "s-slaw", "p-tomato"},
			},
		}},
		usage: llm.TokenUsage{PromptTokens: 500, CompletionTokens: 200},
	}
	p := NewPlanner(gen, zap.NewNop())

	result, err := p.GeneratePlan(context.Background(), testRequest(1, 1200), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, SourceAI, result.Plan.Source)
	require.Len(t, result.Plan.Days, 1)
	assert.Equal(t, "m-curry", result.Plan.Days[0].Meals.Breakfast[0].ID)

	usage, latency := p.LastRunStats()
	assert.Equal(t, 500, usage.PromptTokens)
	assert.Greater(t, latency, time.Duration(0))
}

func TestGeneratePlanDefaultsPolicyAndStartDate(t *testing.T) {
	p := NewPlanner(nil, zap.NewNop())

	req := MenuRequest{CrewCount: 4, Days: 1, DailyBudgetPerPerson: 1200}
	result, err := p.GeneratePlan(context.Background(), req, testCatalog())
	require.NoError(t, err)
	require.Len(t, result.Plan.Days, 1)
	assert.False(t, result.Plan.Days[0].Date.IsZero())
	assert.NotEmpty(t, result.Plan.Days[0].DayLabel)
}

func TestGeneratePlanEnforcesBudget(t *testing.T) {
	p := NewPlanner(nil, zap.NewNop())

	result, err := p.GeneratePlan(context.Background(), testRequest(3, 1200), priceLadderCatalog())
	require.NoError(t, err)
	assert.True(t, result.WithinBudget)
	assert.LessOrEqual(t, result.TotalCost, result.MaxBudget)
	assert.GreaterOrEqual(t, result.TotalCost, result.MinBudget)
	assert.Equal(t, result.TotalCost, result.Plan.TotalCost())
}
