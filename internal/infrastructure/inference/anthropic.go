package inference

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/utils/httpclients"
)

const anthropicVersion = "2023-06-01"

// AnthropicAdapter calls the messages API.
type AnthropicAdapter struct {
	upstream
}

func NewAnthropicAdapter(baseURL, apiKey string, timeout time.Duration) *AnthropicAdapter {
	client := httpclients.NewClient("anthropic", timeout)
	client.SetBaseURL(baseURL)
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}
	client.SetHeader("Anthropic-Version", anthropicVersion)
	return &AnthropicAdapter{upstream{kind: model.ProviderAnthropic, client: client, timeout: timeout}}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a *AnthropicAdapter) Kind() model.ProviderKind {
	return model.ProviderAnthropic
}

func (a *AnthropicAdapter) GenerateText(ctx context.Context, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	content := []anthropicContent{{Type: "text", Text: userContent(p)}}
	return a.messages(ctx, m.ModelFor(model.CapabilityTextGeneration), p, m, content)
}

func (a *AnthropicAdapter) AnalyzeImage(ctx context.Context, image domain.ImageInput, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	content := []anthropicContent{
		{Type: "image", Source: &anthropicImageSource{Type: "base64", MediaType: image.MimeType, Data: base64.StdEncoding.EncodeToString(image.Data)}},
		{Type: "text", Text: userContent(p)},
	}
	return a.messages(ctx, m.ModelFor(model.CapabilityImageAnalysis), p, m, content)
}

func (a *AnthropicAdapter) messages(ctx context.Context, upstreamModel string, p domain.Prompt, m model.Descriptor, content []anthropicContent) (*domain.Completion, error) {
	maxTokens := m.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	request := anthropicRequest{
		Model:       upstreamModel,
		System:      systemInstruction(p.Task),
		MaxTokens:   maxTokens,
		Temperature: temperatureFor(p, m),
		Messages:    []anthropicMessage{{Role: "user", Content: content}},
	}

	raw, err := a.post(ctx, "/messages", request, nil)
	if err != nil {
		return nil, err
	}

	var response anthropicResponse
	if err := a.decode(raw, &response); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &domain.ProviderParseError{Provider: a.kind, Raw: truncate(string(raw), 4096), Err: fmt.Errorf("no text content in response")}
	}

	usage := &domain.Usage{
		PromptTokens:     response.Usage.InputTokens,
		CompletionTokens: response.Usage.OutputTokens,
		TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
	}
	return a.finish(p, raw, text.String(), usage)
}

// Probe lists models to check the API key and reachability.
func (a *AnthropicAdapter) Probe(ctx context.Context) error {
	return a.get(ctx, "/models", nil)
}
