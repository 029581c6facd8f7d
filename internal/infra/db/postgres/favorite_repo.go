package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
)

var _ repository.FavoriteRepository = (*favoriteRepo)(nil)

type favoriteRepo struct{ pool *pgxpool.Pool }

func NewFavoriteRepo(pool *pgxpool.Pool) *favoriteRepo {
	return &favoriteRepo{pool: pool}
}

// Save inserts the favorite; favoriting the same meal again returns the
// existing row's id instead of erroring on the unique constraint.
func (r *favoriteRepo) Save(ctx context.Context, fav *model.Favorite) (string, error) {
	if fav == nil || fav.ID == "" || fav.UserID == "" || fav.MealPlanID == "" {
		return "", domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO favorites (id, user_id, meal_plan_id, meal_day, meal_type, meal_name, calories, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (user_id, meal_plan_id, meal_day, meal_type) DO UPDATE SET meal_name = EXCLUDED.meal_name
RETURNING id;`
	var id string
	err := r.pool.QueryRow(ctx, q, fav.ID, fav.UserID, fav.MealPlanID, fav.MealDay, fav.MealType, fav.MealName, fav.Calories, fav.CreatedAt).Scan(&id)
	if err != nil {
		// 23503: referenced meal plan row is gone
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return "", domain.ErrNotFound
		}
		return "", domain.ErrOperationFailed
	}
	return id, nil
}

func (r *favoriteRepo) ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	const q = `
SELECT id, user_id, meal_plan_id, meal_day, meal_type, meal_name, calories, created_at
FROM favorites WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Favorite
	for rows.Next() {
		f := &model.Favorite{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.MealPlanID, &f.MealDay, &f.MealType, &f.MealName, &f.Calories, &f.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, f)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *favoriteRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE id=$1 AND user_id=$2;`, id, userID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *favoriteRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id=$1;`, userID).Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
