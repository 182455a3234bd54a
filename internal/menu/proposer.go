package menu

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/llm"
)

//go:embed proposer_prompt.md
var proposerPrompt string

// MenuGenerator proposes a raw plan candidate for a request. Backends are
// interchangeable; selection happens in configuration, outside the core.
type MenuGenerator interface {
	Propose(ctx context.Context, req MenuRequest, snap *catalog.Snapshot) (*RawCandidate, llm.TokenUsage, error)
}

// AIMenuProposer asks an LLM backend for a menu and normalizes whatever
// comes back into the canonical candidate shape.
type AIMenuProposer struct {
	provider string
	textGen  llm.TextGenerator
	logger   *zap.Logger
}

// NewAIMenuProposer creates a proposer over a text-generation backend.
func NewAIMenuProposer(provider string, textGen llm.TextGenerator, logger *zap.Logger) *AIMenuProposer {
	return &AIMenuProposer{provider: provider, textGen: textGen, logger: logger}
}

// providerRequest is the provider-facing schema, with native JSON types.
type providerRequest struct {
	CrewCount             int               `json:"crew_count"`
	Days                  int               `json:"days"`
	BudgetPerPersonPerDay int               `json:"budget_per_person_per_day"`
	MinBudgetUsagePercent int               `json:"min_budget_usage_percent"`
	StartDate             string            `json:"start_date"`
	Season                string            `json:"season"`
	CookingTimeLimit      int               `json:"cooking_time_limit"`
	BannedIngredients     []string          `json:"banned_ingredients"`
	WeekdayRules          map[string]string `json:"weekday_rules"`
	AllowedRecipeIDs      []string          `json:"allowed_recipe_ids"`
	Recipes               []providerRecipe  `json:"recipes"`
}

type providerRecipe struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Calories       float64 `json:"calories"`
	ProteinGrams   float64 `json:"protein_grams"`
	SaltGrams      float64 `json:"salt_grams"`
	CostPerServing int     `json:"cost_per_serving"`
}

const (
	cookingTimeMin     = 5
	cookingTimeMax     = 240
	cookingTimeDefault = 240
)

func buildProviderRequest(req MenuRequest, snap *catalog.Snapshot) providerRequest {
	season := req.Constraints.Season
	if season == "" {
		season = seasonForMonth(req.StartDate.Month())
	}

	limit := req.Constraints.MaxCookingTimeMinutes
	if limit == 0 {
		limit = cookingTimeDefault
	} else if limit < cookingTimeMin {
		limit = cookingTimeMin
	} else if limit > cookingTimeMax {
		limit = cookingTimeMax
	}

	recipes := make([]providerRecipe, 0, snap.Len())
	for _, r := range snap.Recipes() {
		recipes = append(recipes, providerRecipe{
			ID:             r.ID,
			Name:           r.Name,
			Category:       string(r.Category),
			Calories:       r.Calories,
			ProteinGrams:   r.ProteinGrams,
			SaltGrams:      r.SaltGrams,
			CostPerServing: r.CostPerServing,
		})
	}

	return providerRequest{
		CrewCount:             req.CrewCount,
		Days:                  req.Days,
		BudgetPerPersonPerDay: req.DailyBudgetPerPerson,
		MinBudgetUsagePercent: int(req.minBudgetUsage() * 100),
		StartDate:             req.StartDate.Format("2006-01-02"),
		Season:                season,
		CookingTimeLimit:      limit,
		BannedIngredients:     req.Constraints.ExcludedIngredientIDs,
		WeekdayRules:          req.Constraints.DayOfWeekRules,
		AllowedRecipeIDs:      snap.IDs(),
		Recipes:               recipes,
	}
}

// allStrings re-encodes the request with every scalar as a string, for
// providers whose input schema rejects native numbers.
func (p providerRequest) allStrings() map[string]any {
	recipes := make([]map[string]string, 0, len(p.Recipes))
	for _, r := range p.Recipes {
		recipes = append(recipes, map[string]string{
			"id":               r.ID,
			"name":             r.Name,
			"category":         r.Category,
			"calories":         strconv.FormatFloat(r.Calories, 'f', -1, 64),
			"protein_grams":    strconv.FormatFloat(r.ProteinGrams, 'f', -1, 64),
			"salt_grams":       strconv.FormatFloat(r.SaltGrams, 'f', -1, 64),
			"cost_per_serving": strconv.Itoa(r.CostPerServing),
		})
	}
	return map[string]any{
		"crew_count":                strconv.Itoa(p.CrewCount),
		"days":                      strconv.Itoa(p.Days),
		"budget_per_person_per_day": strconv.Itoa(p.BudgetPerPersonPerDay),
		"min_budget_usage_percent":  strconv.Itoa(p.MinBudgetUsagePercent),
		"start_date":                p.StartDate,
		"season":                    p.Season,
		"cooking_time_limit":        strconv.Itoa(p.CookingTimeLimit),
		"banned_ingredients":        p.BannedIngredients,
		"weekday_rules":             p.WeekdayRules,
		"allowed_recipe_ids":        p.AllowedRecipeIDs,
		"recipes":                   recipes,
	}
}

// Propose sends the typed encoding first. Exactly one retry with the
// all-strings encoding is made when the provider rejects the payload with a
// recognizable schema error; any other failure is terminal for the attempt.
func (p *AIMenuProposer) Propose(ctx context.Context, req MenuRequest, snap *catalog.Snapshot) (*RawCandidate, llm.TokenUsage, error) {
	payload := buildProviderRequest(req, snap)

	cand, usage, err := p.attempt(ctx, payload)
	if err != nil && llm.IsSchemaError(err) {
		p.logger.Warn("provider rejected typed encoding, retrying all-strings",
			zap.String("provider", p.provider), zap.Error(err))
		cand, usage, err = p.attempt(ctx, payload.allStrings())
	}
	if err != nil {
		return nil, usage, &ProviderError{Provider: p.provider, Err: err}
	}
	return cand, usage, nil
}

func (p *AIMenuProposer) attempt(ctx context.Context, payload any) (*RawCandidate, llm.TokenUsage, error) {
	prompt, err := buildProposerPrompt(payload)
	if err != nil {
		return nil, llm.TokenUsage{}, err
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, resp.Usage, err
	}

	node, err := decodeResponse(resp.Content)
	if err != nil {
		return nil, resp.Usage, err
	}

	cand, shape := unwrapCandidate(node)
	if shape == shapeUnrecognized {
		return nil, resp.Usage, fmt.Errorf("unrecognized response shape")
	}
	return cand, resp.Usage, nil
}

func buildProposerPrompt(payload any) (string, error) {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal provider payload: %w", err)
	}

	tmpl, err := template.New("proposer").Parse(proposerPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Payload string }{Payload: string(encoded)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// decodeResponse parses the model output as a JSON object, tolerating
// markdown code fences that some models emit despite instructions.
func decodeResponse(content string) (map[string]any, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var node map[string]any
	if err := json.Unmarshal([]byte(trimmed), &node); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return node, nil
}

func seasonForMonth(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}
