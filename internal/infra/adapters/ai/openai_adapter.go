package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
)

var _ adapter.MealGenerator = (*OpenAIAdapter)(nil)

// promptTokenLimit bounds the prompt size before a request is sent; real
// prompts are a few hundred tokens, so hitting this means preference input
// was abused as a free-text channel.
const promptTokenLimit = 4000

// OpenAIAdapter generates meal plans through the official OpenAI SDK.
type OpenAIAdapter struct {
	client  openai.Client
	model   string
	maxOut  int
	encoder *tiktoken.Tiktoken
}

func NewOpenAIAdapter(apiKey, model string, maxOut int) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("tiktoken encoding: %w", err)
	}
	return &OpenAIAdapter{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		maxOut:  maxOut,
		encoder: enc,
	}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

// complete guards the prompt size, sends it, and returns the raw reply
// text plus usage.
func (o *OpenAIAdapter) complete(ctx context.Context, prompt string) (string, adapter.Usage, error) {
	if n := len(o.encoder.Encode(prompt, nil, nil)); n > promptTokenLimit {
		return "", adapter.Usage{}, fmt.Errorf("prompt too large: %d tokens", n)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(o.maxOut)),
	})
	if err != nil {
		return "", adapter.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", adapter.Usage{}, errors.New("openai: empty response")
	}

	u := adapter.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, u, nil
}

func (o *OpenAIAdapter) GenerateMealPlan(ctx context.Context, prefs model.Preferences) (model.PlanData, adapter.Usage, error) {
	text, u, err := o.complete(ctx, BuildPrompt(prefs))
	if err != nil {
		return nil, u, err
	}
	plan, err := ParsePlanReply(text)
	if err != nil {
		return nil, u, err
	}
	return plan, u, nil
}

func (o *OpenAIAdapter) SuggestAlternatives(ctx context.Context, req model.SwapRequest) ([]model.MealAlternative, adapter.Usage, error) {
	text, u, err := o.complete(ctx, BuildSwapPrompt(req))
	if err != nil {
		return nil, u, err
	}
	alts, err := ParseSwapReply(text)
	if err != nil {
		return nil, u, err
	}
	return alts, u, nil
}

func (o *OpenAIAdapter) BuildShoppingList(ctx context.Context, plan model.PlanData) (model.ShoppingList, adapter.Usage, error) {
	text, u, err := o.complete(ctx, BuildShoppingListPrompt(plan))
	if err != nil {
		return nil, u, err
	}
	list, err := ParseShoppingListReply(text)
	if err != nil {
		return nil, u, err
	}
	return list, u, nil
}

func (o *OpenAIAdapter) RecipeDetails(ctx context.Context, req model.RecipeRequest) (*model.Recipe, adapter.Usage, error) {
	text, u, err := o.complete(ctx, BuildRecipePrompt(req))
	if err != nil {
		return nil, u, err
	}
	recipe, err := ParseRecipeReply(text)
	if err != nil {
		return nil, u, err
	}
	return recipe, u, nil
}
