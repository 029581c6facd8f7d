package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
)

var _ adapter.MealGenerator = (*GeminiAdapter)(nil)

// GeminiAdapter generates meal plans through the official Gemini SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
	maxOut int
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

// complete sends one prompt and returns the raw reply text plus usage.
func (g *GeminiAdapter) complete(ctx context.Context, prompt string) (string, adapter.Usage, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxOut),
	})
	if err != nil {
		return "", adapter.Usage{}, err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}

	u := adapter.Usage{}
	if resp != nil && resp.UsageMetadata != nil {
		u.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		u.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		u.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return text, u, nil
}

func (g *GeminiAdapter) GenerateMealPlan(ctx context.Context, prefs model.Preferences) (model.PlanData, adapter.Usage, error) {
	text, u, err := g.complete(ctx, BuildPrompt(prefs))
	if err != nil {
		return nil, u, err
	}
	plan, err := ParsePlanReply(text)
	if err != nil {
		return nil, u, err
	}
	return plan, u, nil
}

func (g *GeminiAdapter) SuggestAlternatives(ctx context.Context, req model.SwapRequest) ([]model.MealAlternative, adapter.Usage, error) {
	text, u, err := g.complete(ctx, BuildSwapPrompt(req))
	if err != nil {
		return nil, u, err
	}
	alts, err := ParseSwapReply(text)
	if err != nil {
		return nil, u, err
	}
	return alts, u, nil
}

func (g *GeminiAdapter) BuildShoppingList(ctx context.Context, plan model.PlanData) (model.ShoppingList, adapter.Usage, error) {
	text, u, err := g.complete(ctx, BuildShoppingListPrompt(plan))
	if err != nil {
		return nil, u, err
	}
	list, err := ParseShoppingListReply(text)
	if err != nil {
		return nil, u, err
	}
	return list, u, nil
}

func (g *GeminiAdapter) RecipeDetails(ctx context.Context, req model.RecipeRequest) (*model.Recipe, adapter.Usage, error) {
	text, u, err := g.complete(ctx, BuildRecipePrompt(req))
	if err != nil {
		return nil, u, err
	}
	recipe, err := ParseRecipeReply(text)
	if err != nil {
		return nil, u, err
	}
	return recipe, u, nil
}
