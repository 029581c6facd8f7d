// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"mealplan-ai-subscription/internal/config"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
	pg "mealplan-ai-subscription/internal/infra/db/postgres"
)

// Seeds a demo subscriber so the payment and generation flows can be
// exercised locally without going through a real checkout.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	profiles := pg.NewProfileRepo(pool)

	const demoUser = "demo-user"
	if p, err := profiles.FindByUserID(ctx, demoUser); err == nil {
		fmt.Printf("demo profile already present (active=%v). No changes.\n", p.SubscriptionActive)
		return
	}

	now := time.Now()
	end := model.PlanTierMonth.TermEnd(now)
	tier := model.PlanTierMonth
	ref := "cs_seed_demo"
	patch := repository.SubscriptionPatch{
		Active:      true,
		Tier:        &tier,
		StartDate:   &now,
		EndDate:     &end,
		ReferenceID: &ref,
	}
	if err := profiles.UpsertSubscription(ctx, demoUser, "demo@example.com", patch); err != nil {
		log.Fatalf("seed profile: %v", err)
	}
	if err := profiles.UpsertPreferences(ctx, demoUser, "demo@example.com", model.DefaultPreferences()); err != nil {
		log.Fatalf("seed preferences: %v", err)
	}

	fmt.Printf("seeded: %s (tier=%s, ends=%s)\n", demoUser, tier, end.Format(time.RFC3339))
	fmt.Println("✅ Seeding complete.")
}
