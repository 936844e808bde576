package inference

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/utils/httpclients"
)

// OpenAIAdapter calls the chat completions API.
type OpenAIAdapter struct {
	upstream
}

func NewOpenAIAdapter(baseURL, apiKey string, timeout time.Duration) *OpenAIAdapter {
	client := httpclients.NewClient("openai", timeout)
	client.SetBaseURL(baseURL)
	if apiKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	return &OpenAIAdapter{upstream{kind: model.ProviderOpenAI, client: client, timeout: timeout}}
}

func (a *OpenAIAdapter) Kind() model.ProviderKind {
	return model.ProviderOpenAI
}

func (a *OpenAIAdapter) GenerateText(ctx context.Context, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userContent(p)}
	return a.complete(ctx, m.ModelFor(model.CapabilityTextGeneration), p, m, user)
}

func (a *OpenAIAdapter) AnalyzeImage(ctx context.Context, image domain.ImageInput, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", image.MimeType, base64.StdEncoding.EncodeToString(image.Data))
	user := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: userContent(p)},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto}},
		},
	}
	return a.complete(ctx, m.ModelFor(model.CapabilityImageAnalysis), p, m, user)
}

func (a *OpenAIAdapter) complete(ctx context.Context, upstreamModel string, p domain.Prompt, m model.Descriptor, user openai.ChatCompletionMessage) (*domain.Completion, error) {
	request := openai.ChatCompletionRequest{
		Model: upstreamModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction(p.Task)},
			user,
		},
		MaxTokens:   m.MaxTokens,
		Temperature: temperatureFor(p, m),
	}
	if p.Structured {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	raw, err := a.post(ctx, "/chat/completions", request, nil)
	if err != nil {
		return nil, err
	}

	var response openai.ChatCompletionResponse
	if err := a.decode(raw, &response); err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, &domain.ProviderParseError{Provider: a.kind, Raw: truncate(string(raw), 4096), Err: fmt.Errorf("no choices in response")}
	}

	return a.finish(p, raw, response.Choices[0].Message.Content, usageFromOpenAI(&response.Usage))
}

// Probe lists models to check the API key and reachability.
func (a *OpenAIAdapter) Probe(ctx context.Context) error {
	return a.get(ctx, "/models", nil)
}
