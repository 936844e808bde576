package inference

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/utils/httpclients"
)

// GeminiAdapter calls Google's generateContent API. It serves the corporate tier,
// including image analysis through the descriptor's vision model.
type GeminiAdapter struct {
	upstream
	apiKey string
}

func NewGeminiAdapter(baseURL, apiKey string, timeout time.Duration) *GeminiAdapter {
	client := httpclients.NewClient("gemini", timeout)
	client.SetBaseURL(baseURL)
	return &GeminiAdapter{
		upstream: upstream{kind: model.ProviderGemini, client: client, timeout: timeout},
		apiKey:   apiKey,
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent        `json:"systemInstruction,omitempty"`
	Contents          []geminiContent       `json:"contents"`
	GenerationConfig  *geminiGenerationConf `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConf struct {
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (a *GeminiAdapter) Kind() model.ProviderKind {
	return model.ProviderGemini
}

func (a *GeminiAdapter) GenerateText(ctx context.Context, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	parts := []geminiPart{{Text: userContent(p)}}
	return a.generate(ctx, m.ModelFor(model.CapabilityTextGeneration), p, m, parts)
}

func (a *GeminiAdapter) AnalyzeImage(ctx context.Context, image domain.ImageInput, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	parts := []geminiPart{
		{Text: userContent(p)},
		{InlineData: &geminiInlineData{MimeType: image.MimeType, Data: base64.StdEncoding.EncodeToString(image.Data)}},
	}
	return a.generate(ctx, m.ModelFor(model.CapabilityImageAnalysis), p, m, parts)
}

func (a *GeminiAdapter) generate(ctx context.Context, upstreamModel string, p domain.Prompt, m model.Descriptor, parts []geminiPart) (*domain.Completion, error) {
	request := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemInstruction(p.Task)}}},
		Contents:          []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConf{
			Temperature:     temperatureFor(p, m),
			MaxOutputTokens: m.MaxTokens,
		},
	}
	if p.Structured {
		request.GenerationConfig.ResponseMimeType = "application/json"
	}

	path := fmt.Sprintf("/models/%s:generateContent", upstreamModel)
	raw, err := a.post(ctx, path, request, a.withKey)
	if err != nil {
		return nil, err
	}

	var response geminiResponse
	if err := a.decode(raw, &response); err != nil {
		return nil, err
	}
	if len(response.Candidates) == 0 {
		return nil, &domain.ProviderParseError{Provider: a.kind, Raw: truncate(string(raw), 4096), Err: fmt.Errorf("no candidates in response")}
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	var usage *domain.Usage
	if u := response.UsageMetadata; u != nil {
		usage = &domain.Usage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return a.finish(p, raw, text.String(), usage)
}

// Probe lists models to check the API key and reachability.
func (a *GeminiAdapter) Probe(ctx context.Context) error {
	return a.get(ctx, "/models", a.withKey)
}

func (a *GeminiAdapter) withKey(r *resty.Request) {
	if a.apiKey != "" {
		r.SetQueryParam("key", a.apiKey)
	}
}
