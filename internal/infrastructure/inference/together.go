package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/utils/httpclients"
)

// TogetherAdapter calls Together AI's OpenAI-compatible completions endpoint with
// instruct-formatted prompts. It serves the personal tier.
type TogetherAdapter struct {
	upstream
}

func NewTogetherAdapter(baseURL, apiKey string, timeout time.Duration) *TogetherAdapter {
	client := httpclients.NewClient("together", timeout)
	client.SetBaseURL(baseURL)
	if apiKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	return &TogetherAdapter{upstream{kind: model.ProviderTogether, client: client, timeout: timeout}}
}

func (a *TogetherAdapter) Kind() model.ProviderKind {
	return model.ProviderTogether
}

func (a *TogetherAdapter) GenerateText(ctx context.Context, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	request := openai.CompletionRequest{
		Model:       m.ModelFor(model.CapabilityTextGeneration),
		Prompt:      instructPrompt(p),
		MaxTokens:   m.MaxTokens,
		Temperature: temperatureFor(p, m),
	}

	raw, err := a.post(ctx, "/completions", request, nil)
	if err != nil {
		return nil, err
	}

	var response openai.CompletionResponse
	if err := a.decode(raw, &response); err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, &domain.ProviderParseError{Provider: a.kind, Raw: truncate(string(raw), 4096), Err: fmt.Errorf("no choices in response")}
	}

	return a.finish(p, raw, response.Choices[0].Text, usageFromOpenAI(response.Usage))
}

func (a *TogetherAdapter) AnalyzeImage(ctx context.Context, image domain.ImageInput, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	return nil, fmt.Errorf("together image analysis: %w", domain.ErrUnsupported)
}

// Probe lists models to check the API key and reachability.
func (a *TogetherAdapter) Probe(ctx context.Context) error {
	return a.get(ctx, "/models", nil)
}

func usageFromOpenAI(u *openai.Usage) *domain.Usage {
	if u == nil || u.TotalTokens == 0 && u.PromptTokens == 0 && u.CompletionTokens == 0 {
		return nil
	}
	return &domain.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

// temperatureFor lowers sampling temperature for structured answers.
func temperatureFor(p domain.Prompt, m model.Descriptor) float32 {
	if p.Structured {
		return 0.3
	}
	if m.Temperature > 0 {
		return m.Temperature
	}
	return 0.7
}
