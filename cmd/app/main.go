// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealplan-ai-subscription/internal/config"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
	aiAdapters "mealplan-ai-subscription/internal/infra/adapters/ai"
	payAdapters "mealplan-ai-subscription/internal/infra/adapters/payment"
	pg "mealplan-ai-subscription/internal/infra/db/postgres"
	"mealplan-ai-subscription/internal/infra/logging"
	"mealplan-ai-subscription/internal/infra/metrics"
	red "mealplan-ai-subscription/internal/infra/redis"
	"mealplan-ai-subscription/internal/infra/sched"
	"mealplan-ai-subscription/internal/infra/web"
	"mealplan-ai-subscription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed verification, in-memory fallbacks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	planCache := red.NewPlanCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	profileRepo := pg.NewProfileRepo(pool)
	mealPlanRepo := pg.NewMealPlanRepo(pool)
	favoriteRepo := pg.NewFavoriteRepo(pool)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev && cfg.Payment.PayMongo.SecretKey == "noop" {
		gateway = payAdapters.NewNoopGateway()
		logger.Warn().Msg("payment gateway: in-memory noop (dev)")
	} else {
		gateway, err = payAdapters.NewPayMongoGateway(cfg.Payment.PayMongo.SecretKey, cfg.Payment.PayMongo.BaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("paymongo gateway")
		}
		logger.Info().Str("base_url", cfg.Payment.PayMongo.BaseURL).Msg("payment gateway: paymongo")
	}

	// ---- AI adapter (Gemini -> OpenAI -> dev noop) ----
	var generator adapter.MealGenerator
	switch {
	case cfg.AI.GeminiKey != "":
		generator, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.AI.OpenAIKey != "":
		generator, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.Runtime.Dev:
		generator = aiAdapters.NoopGenerator{}
		logger.Warn().Msg("AI adapter: canned noop (dev)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}

	// ---- Use cases ----
	billingUC := usecase.NewBillingUseCase(profileRepo, gateway, cfg.Server.AppBaseURL, logger)
	webhookUC := usecase.NewWebhookUseCase(profileRepo, billingUC, logger)
	prefUC := usecase.NewPreferenceUseCase(profileRepo)
	mealPlanUC := usecase.NewMealPlanUseCase(profileRepo, mealPlanRepo, favoriteRepo, generator, rateLimiter, planCache, cfg.AI.GenerationsPerHour, logger)
	statsUC := usecase.NewStatsUseCase(profileRepo, mealPlanRepo, favoriteRepo, logger)

	// ---- HTTP server ----
	authMgr := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.SecureCookie, cfg.Auth.CookieDomain, cfg.Auth.SessionTTL)
	srv := web.NewServer(billingUC, webhookUC, prefUC, mealPlanUC, statsUC, authMgr, cfg.Payment.PayMongo.WebhookSecret, cfg.Auth.AdminAPIKey, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryCheckInterval, profileRepo, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
