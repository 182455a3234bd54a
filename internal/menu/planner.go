package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/llm"
)

// Planner owns the planning pipeline: request validation, the optional AI
// attempt with candidate repair, the rule-based fallback, budget enforcement
// and scoring. Each stage replaces its predecessor's output only on success.
type Planner struct {
	generator MenuGenerator // nil when no AI backend is configured
	validate  *validator.Validate
	logger    *zap.Logger

	// Filled after each run, for the metrics collaborator.
	lastUsage   llm.TokenUsage
	lastLatency time.Duration
}

// NewPlanner creates a Planner. A nil generator skips the AI stage and
// every plan comes from the rule-based generator.
func NewPlanner(generator MenuGenerator, logger *zap.Logger) *Planner {
	return &Planner{
		generator: generator,
		validate:  validator.New(),
		logger:    logger,
	}
}

// GeneratePlan runs the full pipeline for one request over the given
// catalog slice. The only error it returns is a *RequestValidationError;
// every other failure mode degrades to the fallback generator. A budget
// band miss is reported in the result, not as an error.
func (p *Planner) GeneratePlan(ctx context.Context, req MenuRequest, recipes []catalog.Recipe) (*PlanResult, error) {
	start := time.Now()
	p.lastUsage = llm.TokenUsage{}

	req = normalizeRequest(req)
	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	// Immutable per-run snapshot: catalog writers cannot affect this run.
	snap := catalog.NewSnapshot(recipes, catalog.Filter{
		ExcludedIngredientIDs: req.Constraints.ExcludedIngredientIDs,
		Season:                req.Constraints.Season,
		MaxCookingTimeMinutes: req.Constraints.MaxCookingTimeMinutes,
	})
	if err := checkCategories(snap); err != nil {
		return nil, err
	}

	plan := p.tryAIProposal(ctx, req, snap)
	if plan == nil {
		generated, err := NewRuleBasedGenerator(snap).Generate(req)
		if err != nil {
			return nil, err
		}
		plan = generated
	}
	plan.ID = uuid.NewString()

	outcome := NewBudgetEnforcer(snap).Enforce(plan, req)
	if !outcome.WithinBudget {
		p.logger.Info("plan remains outside budget band",
			zap.Int("total_cost", outcome.TotalCost),
			zap.Int("min_budget", outcome.MinBudget),
			zap.Int("max_budget", outcome.MaxBudget))
	}

	p.lastLatency = time.Since(start)
	return &PlanResult{
		Plan:         plan,
		TotalCost:    outcome.TotalCost,
		MinBudget:    outcome.MinBudget,
		MaxBudget:    outcome.MaxBudget,
		WithinBudget: outcome.WithinBudget,
	}, nil
}

// tryAIProposal returns nil whenever the AI stage cannot deliver a usable
// plan, for any reason; the caller then falls back.
func (p *Planner) tryAIProposal(ctx context.Context, req MenuRequest, snap *catalog.Snapshot) *Plan {
	if p.generator == nil {
		return nil
	}

	cand, usage, err := p.generator.Propose(ctx, req, snap)
	p.lastUsage = usage
	if err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			p.logger.Warn("AI proposal failed, falling back to rule-based generator",
				zap.String("provider", provErr.Provider), zap.Error(provErr.Err))
		} else {
			p.logger.Warn("AI proposal failed, falling back to rule-based generator", zap.Error(err))
		}
		return nil
	}

	if err := ValidateCandidate(cand, req.Days); err != nil {
		p.logger.Warn("AI candidate discarded", zap.Error(err))
		return nil
	}

	normalized := NormalizeCandidate(cand, snap)
	return RepairCandidate(normalized, snap)
}

// LastRunStats exposes the previous run's provider usage and latency for
// the metrics collaborator.
func (p *Planner) LastRunStats() (llm.TokenUsage, time.Duration) {
	return p.lastUsage, p.lastLatency
}

func normalizeRequest(req MenuRequest) MenuRequest {
	if req.StartDate.IsZero() {
		now := time.Now()
		req.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if req.Policy == "" {
		req.Policy = PolicyBalanced
	}
	return req
}

func (p *Planner) validateRequest(req MenuRequest) error {
	if err := p.validate.Struct(req); err != nil {
		return &RequestValidationError{Reason: err.Error()}
	}
	return nil
}

func checkCategories(snap *catalog.Snapshot) error {
	for _, cat := range []catalog.Category{catalog.CategoryMain, catalog.CategorySide, catalog.CategorySoup} {
		if len(snap.Category(cat)) == 0 {
			return &RequestValidationError{Reason: fmt.Sprintf("catalog has no eligible %s recipes", cat)}
		}
	}
	return nil
}
