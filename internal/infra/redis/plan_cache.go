package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mealplan-ai-subscription/internal/domain/model"
)

// PlanCache keeps each user's most recent generated plan so the client can
// re-fetch it without another provider call.
type PlanCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewPlanCache(client RedisClient, ttl time.Duration) *PlanCache {
	return &PlanCache{client: client, ttl: ttl}
}

func key(userID string) string { return "last_plan:" + userID }

func (c *PlanCache) Store(ctx context.Context, userID string, plan model.PlanData) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(userID), data, c.ttl)
}

// Get returns (nil, nil) on a cache miss.
func (c *PlanCache) Get(ctx context.Context, userID string) (model.PlanData, error) {
	data, err := c.client.Get(ctx, key(userID))
	if err != nil {
		if errors.Is(err, Nil) {
			return nil, nil
		}
		return nil, err
	}
	var plan model.PlanData
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (c *PlanCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, key(userID))
}
