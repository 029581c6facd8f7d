package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
)

var _ repository.ProfileRepository = (*profileRepo)(nil)

type profileRepo struct{ pool *pgxpool.Pool }

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

const profileColumns = `user_id, email, subscription_active, subscription_tier,
subscription_start_date, subscription_end_date, payment_reference_id,
diet_type, daily_calories, allergies, cuisine, include_snacks, plan_days,
created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	p := &model.Profile{}
	var tier *string
	err := row.Scan(
		&p.UserID, &p.Email, &p.SubscriptionActive, &tier,
		&p.SubscriptionStartDate, &p.SubscriptionEndDate, &p.PaymentReferenceID,
		&p.Preferences.DietType, &p.Preferences.DailyCalories, &p.Preferences.Allergies,
		&p.Preferences.Cuisine, &p.Preferences.IncludeSnacks, &p.Preferences.PlanDays,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if tier != nil {
		t := model.PlanTier(*tier)
		p.SubscriptionTier = &t
	}
	return p, nil
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id=$1;`
	return scanProfile(r.pool.QueryRow(ctx, q, userID))
}

// UpsertSubscription is the convergent write both confirmation paths use.
// It is a pure overwrite of the subscription fields keyed on user_id, so
// repeated or racing applications settle on the last writer's state. A
// non-empty incoming email wins; an empty one preserves what is stored.
func (r *profileRepo) UpsertSubscription(ctx context.Context, userID, email string, patch repository.SubscriptionPatch) error {
	if userID == "" {
		return domain.ErrInvalidArgument
	}
	var tier *string
	if patch.Tier != nil {
		s := string(*patch.Tier)
		tier = &s
	}
	const q = `
INSERT INTO profiles (user_id, email, subscription_active, subscription_tier,
  subscription_start_date, subscription_end_date, payment_reference_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (user_id) DO UPDATE SET
  email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE profiles.email END,
  subscription_active = EXCLUDED.subscription_active,
  subscription_tier = EXCLUDED.subscription_tier,
  subscription_start_date = EXCLUDED.subscription_start_date,
  subscription_end_date = EXCLUDED.subscription_end_date,
  payment_reference_id = EXCLUDED.payment_reference_id,
  updated_at = NOW();`
	_, err := r.pool.Exec(ctx, q, userID, email, patch.Active, tier, patch.StartDate, patch.EndDate, patch.ReferenceID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *profileRepo) UpsertPreferences(ctx context.Context, userID, email string, prefs model.Preferences) error {
	if userID == "" {
		return domain.ErrInvalidArgument
	}
	prefs = prefs.Normalize()
	const q = `
INSERT INTO profiles (user_id, email, diet_type, daily_calories, allergies, cuisine, include_snacks, plan_days)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (user_id) DO UPDATE SET
  email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE profiles.email END,
  diet_type = EXCLUDED.diet_type,
  daily_calories = EXCLUDED.daily_calories,
  allergies = EXCLUDED.allergies,
  cuisine = EXCLUDED.cuisine,
  include_snacks = EXCLUDED.include_snacks,
  plan_days = EXCLUDED.plan_days,
  updated_at = NOW();`
	_, err := r.pool.Exec(ctx, q, userID, email, prefs.DietType, prefs.DailyCalories, prefs.Allergies, prefs.Cuisine, prefs.IncludeSnacks, prefs.PlanDays)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *profileRepo) Deactivate(ctx context.Context, userID string, clearTier bool) error {
	if userID == "" {
		return domain.ErrInvalidArgument
	}
	q := `UPDATE profiles SET subscription_active=FALSE, updated_at=NOW() WHERE user_id=$1;`
	if clearTier {
		q = `UPDATE profiles SET subscription_active=FALSE, subscription_tier=NULL, updated_at=NOW() WHERE user_id=$1;`
	}
	tag, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepo) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	const q = `
UPDATE profiles SET subscription_active=FALSE, updated_at=NOW()
WHERE subscription_active=TRUE AND subscription_end_date IS NOT NULL AND subscription_end_date < $1;`
	tag, err := r.pool.Exec(ctx, q, now)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *profileRepo) CountProfiles(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles;`).Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *profileRepo) CountActiveByTier(ctx context.Context) (map[model.PlanTier]int, error) {
	rows, err := r.pool.Query(ctx, `
SELECT subscription_tier, COUNT(*) FROM profiles
WHERE subscription_active=TRUE AND subscription_tier IS NOT NULL
GROUP BY subscription_tier;`)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	out := make(map[model.PlanTier]int)
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[model.PlanTier(tier)] = n
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
