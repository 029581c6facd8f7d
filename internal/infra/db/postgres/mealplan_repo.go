package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
)

var _ repository.MealPlanRepository = (*mealPlanRepo)(nil)

type mealPlanRepo struct{ pool *pgxpool.Pool }

func NewMealPlanRepo(pool *pgxpool.Pool) *mealPlanRepo {
	return &mealPlanRepo{pool: pool}
}

func (r *mealPlanRepo) Save(ctx context.Context, plan *model.MealPlan) error {
	if plan == nil || plan.ID == "" || plan.UserID == "" {
		return domain.ErrInvalidArgument
	}
	data, err := json.Marshal(plan.PlanData)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO meal_plans (id, user_id, name, diet_type, calories, allergies, cuisine, days, snacks, plan_data, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO NOTHING;`
	if _, err := r.pool.Exec(ctx, q, plan.ID, plan.UserID, plan.Name, plan.DietType, plan.Calories,
		plan.Allergies, plan.Cuisine, plan.Days, plan.Snacks, data, plan.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func scanMealPlan(row pgx.Row) (*model.MealPlan, error) {
	p := &model.MealPlan{}
	var data []byte
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.DietType, &p.Calories,
		&p.Allergies, &p.Cuisine, &p.Days, &p.Snacks, &data, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(data, &p.PlanData); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

const mealPlanColumns = `id, user_id, name, diet_type, calories, allergies, cuisine, days, snacks, plan_data, created_at`

func (r *mealPlanRepo) FindByID(ctx context.Context, id string) (*model.MealPlan, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	q := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE id=$1;`
	return scanMealPlan(r.pool.QueryRow(ctx, q, id))
}

func (r *mealPlanRepo) ListByUser(ctx context.Context, userID string) ([]*model.MealPlan, error) {
	q := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.MealPlan
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *mealPlanRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meal_plans WHERE id=$1 AND user_id=$2;`, id, userID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mealPlanRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM meal_plans WHERE user_id=$1;`, userID).Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
