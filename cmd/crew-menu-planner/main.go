package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/config"
	"crew-menu-planner/internal/database"
	"crew-menu-planner/internal/llm"
	"crew-menu-planner/internal/menu"
	"crew-menu-planner/internal/metrics"
	"crew-menu-planner/internal/shopping"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "plan":
		err = runPlan(ctx, cfg, db, logger, os.Args[2:])
	case "plans":
		err = runPlans(ctx, db, os.Args[2:])
	case "metrics":
		err = runMetrics(ctx, db, os.Args[2:])
	case "seed":
		err = runSeed(ctx, db, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func runPlan(ctx context.Context, cfg *config.Config, db *database.DB, logger *zap.Logger, args []string) error {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	crew := planCmd.Int("crew", 1, "Crew size")
	days := planCmd.Int("days", 7, "Number of days to plan")
	budget := planCmd.Int("budget", 1200, "Daily budget per person, in currency units")
	policy := planCmd.String("policy", "balanced", "Nutrition policy: balanced, high-protein, low-salt, high-volume")
	start := planCmd.String("start", "", "Start date (YYYY-MM-DD, default today)")
	season := planCmd.String("season", "", "Season override (derived from start date when empty)")
	maxCooking := planCmd.Int("max-cooking", 0, "Max cooking time per recipe, minutes (0 = no limit)")
	shoppingList := planCmd.Bool("shopping", false, "Also print the procurement list")
	planCmd.Parse(args)

	req := menu.MenuRequest{
		CrewCount:            *crew,
		Days:                 *days,
		DailyBudgetPerPerson: *budget,
		Policy:               menu.NutritionPolicy(*policy),
		MinBudgetUsage:       cfg.MinBudgetUsage,
		Constraints: menu.Constraints{
			Season:                *season,
			MaxCookingTimeMinutes: *maxCooking,
		},
	}
	if *start != "" {
		startDate, err := time.Parse("2006-01-02", *start)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		req.StartDate = startDate
	}

	generator, closer, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	recipes, err := catalog.NewRepository(db.SQL).List(ctx)
	if err != nil {
		return err
	}

	planner := menu.NewPlanner(generator, logger)

	runCtx, cancel := context.WithTimeout(ctx, cfg.AITimeout)
	defer cancel()

	result, err := planner.GeneratePlan(runCtx, req, recipes)
	if err != nil {
		return err
	}

	if err := menu.NewPlanRepository(db.SQL).Save(ctx, req, result); err != nil {
		return err
	}

	usage, latency := planner.LastRunStats()
	metric := metrics.RunMetric{
		Source:           string(result.Plan.Source),
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		TotalCost:        result.TotalCost,
		WithinBudget:     result.WithinBudget,
	}
	if err := metrics.NewStore(db.SQL).Record(ctx, metric); err != nil {
		logger.Warn("failed to record run metric", zap.Error(err))
	}

	if err := printJSON(result); err != nil {
		return err
	}
	if *shoppingList {
		return printJSON(shopping.BuildProcurementList(result.Plan, req.CrewCount))
	}
	return nil
}

func runPlans(ctx context.Context, db *database.DB, args []string) error {
	plansCmd := flag.NewFlagSet("plans", flag.ExitOnError)
	limit := plansCmd.Int("limit", 10, "Number of plans to show")
	plansCmd.Parse(args)

	stored, err := menu.NewPlanRepository(db.SQL).ListRecent(ctx, *limit)
	if err != nil {
		return err
	}
	for _, sp := range stored {
		fmt.Printf("%s  %s  crew=%d days=%d start=%s cost=%d source=%s\n",
			sp.CreatedAt.Format(time.RFC3339), sp.ID, sp.CrewCount, sp.Days, sp.StartDate, sp.TotalCost, sp.Source)
	}
	return nil
}

func runMetrics(ctx context.Context, db *database.DB, args []string) error {
	metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
	limit := metricsCmd.Int("limit", 20, "Number of metric rows to show")
	cleanupDays := metricsCmd.Int("cleanup", 0, "Remove records older than N days instead of listing")
	metricsCmd.Parse(args)

	store := metrics.NewStore(db.SQL)
	if *cleanupDays > 0 {
		affected, err := store.Cleanup(ctx, *cleanupDays)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d old metric records.\n", affected)
		return nil
	}

	rows, err := store.ListRecent(ctx, *limit)
	if err != nil {
		return err
	}
	for _, m := range rows {
		fmt.Printf("%s  source=%s model=%s tokens=%d/%d latency=%dms cost=%d within_budget=%t\n",
			m.Timestamp.Format(time.RFC3339), m.Source, m.Model,
			m.PromptTokens, m.CompletionTokens, m.LatencyMS, m.TotalCost, m.WithinBudget)
	}
	return nil
}

// runSeed loads recipes from a JSON file into the catalog.
func runSeed(ctx context.Context, db *database.DB, args []string) error {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	file := seedCmd.String("file", "recipes.json", "JSON file with an array of recipes")
	seedCmd.Parse(args)

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *file, err)
	}
	var recipes []catalog.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return fmt.Errorf("failed to parse %s: %w", *file, err)
	}

	repo := catalog.NewRepository(db.SQL)
	for _, rec := range recipes {
		if err := repo.Save(ctx, rec); err != nil {
			return err
		}
	}
	fmt.Printf("Seeded %d recipes.\n", len(recipes))
	return nil
}

func buildGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (menu.MenuGenerator, llm.Closer, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		closer, _ := client.(llm.Closer)
		return menu.NewAIMenuProposer(config.ProviderGemini, client, logger), closer, nil
	case config.ProviderGroq:
		client := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.AITimeout)
		return menu.NewAIMenuProposer(config.ProviderGroq, client, logger), nil, nil
	default:
		return nil, nil, nil
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	fmt.Println("Usage: crew-menu-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan       Generate a multi-day crew menu")
	fmt.Println("  plans      List recently stored plans")
	fmt.Println("  metrics    Show or clean up run metrics")
	fmt.Println("  seed       Load recipes from a JSON file into the catalog")
}
