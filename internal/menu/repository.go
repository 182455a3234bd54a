package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoredPlan is a persisted plan row. The engine itself never writes plans;
// the CLI collaborator does after a successful run.
type StoredPlan struct {
	ID        string
	CrewCount int
	Days      int
	StartDate string
	Source    PlanSource
	TotalCost int
	Plan      *Plan
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for generated plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save inserts a generated plan.
func (r *PlanRepository) Save(ctx context.Context, req MenuRequest, result *PlanResult) error {
	planData, err := json.Marshal(result.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, crew_count, days, start_date, source, total_cost, plan_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Plan.ID, req.CrewCount, req.Days, req.StartDate.Format("2006-01-02"),
		string(result.Plan.Source), result.TotalCost, string(planData), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", result.Plan.ID, err)
	}
	return nil
}

// ListRecent retrieves the N most recent stored plans, newest first.
func (r *PlanRepository) ListRecent(ctx context.Context, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, crew_count, days, start_date, source, total_cost, plan_data, created_at
		FROM meal_plans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans: %w", err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var sp StoredPlan
		var source, planData string
		if err := rows.Scan(&sp.ID, &sp.CrewCount, &sp.Days, &sp.StartDate,
			&source, &sp.TotalCost, &planData, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		sp.Source = PlanSource(source)
		var plan Plan
		if err := json.Unmarshal([]byte(planData), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan %s: %w", sp.ID, err)
		}
		sp.Plan = &plan
		plans = append(plans, sp)
	}
	return plans, rows.Err()
}
