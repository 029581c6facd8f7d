package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables this service owns. Statements are
// idempotent so startup can always run them.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
  user_id                 TEXT PRIMARY KEY,
  email                   TEXT NOT NULL DEFAULT '',
  subscription_active     BOOLEAN NOT NULL DEFAULT FALSE,
  subscription_tier       TEXT,
  subscription_start_date TIMESTAMPTZ,
  subscription_end_date   TIMESTAMPTZ,
  payment_reference_id    TEXT,
  diet_type               TEXT NOT NULL DEFAULT 'balanced',
  daily_calories          INT NOT NULL DEFAULT 2000,
  allergies               TEXT NOT NULL DEFAULT '',
  cuisine                 TEXT NOT NULL DEFAULT '',
  include_snacks          BOOLEAN NOT NULL DEFAULT TRUE,
  plan_days               INT NOT NULL DEFAULT 7,
  created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS meal_plans (
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  name       TEXT NOT NULL,
  diet_type  TEXT NOT NULL,
  calories   INT NOT NULL,
  allergies  TEXT NOT NULL DEFAULT '',
  cuisine    TEXT NOT NULL DEFAULT '',
  days       INT NOT NULL,
  snacks     BOOLEAN NOT NULL DEFAULT TRUE,
  plan_data  JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS meal_plans_user_created_idx ON meal_plans (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS favorites (
  id           TEXT PRIMARY KEY,
  user_id      TEXT NOT NULL,
  meal_plan_id TEXT NOT NULL REFERENCES meal_plans(id) ON DELETE CASCADE,
  meal_day     TEXT NOT NULL,
  meal_type    TEXT NOT NULL,
  meal_name    TEXT NOT NULL,
  calories     INT NOT NULL DEFAULT 0,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE (user_id, meal_plan_id, meal_day, meal_type)
);
CREATE INDEX IF NOT EXISTS favorites_user_created_idx ON favorites (user_id, created_at DESC);
`
	_, err := pool.Exec(ctx, ddl)
	return err
}
