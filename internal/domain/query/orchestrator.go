package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/history"
	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/infrastructure/metrics"
	"medisage-api/internal/infrastructure/observability"
	"medisage-api/internal/utils/platformerrors"
)

// HistoryRecorder accepts completed orchestrations. Implementations must not block.
type HistoryRecorder interface {
	Record(ctx context.Context, record *history.Record)
}

// Orchestrator runs the validate, route, call, normalize, record pipeline for each request kind.
type Orchestrator struct {
	router        *model.Router
	adapters      domain.AdapterResolver
	history       HistoryRecorder
	validate      *validator.Validate
	timeout       time.Duration
	maxImageBytes int64
	log           zerolog.Logger
	tracer        trace.Tracer
}

func NewOrchestrator(cfg *config.Config, router *model.Router, adapters domain.AdapterResolver, recorder HistoryRecorder, log zerolog.Logger) *Orchestrator {
	maxImage := cfg.MaxUploadBytes
	if maxImage <= 0 {
		maxImage = DefaultMaxImageBytes
	}
	return &Orchestrator{
		router:        router,
		adapters:      adapters,
		history:       recorder,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		timeout:       cfg.ProviderTimeout,
		maxImageBytes: maxImage,
		log:           log.With().Str("component", "query-orchestrator").Logger(),
		tracer:        otel.Tracer("medisage-api/query"),
	}
}

// call is one upstream invocation prepared by an entry point.
type call struct {
	kind        history.Kind
	capability  model.Capability
	caller      Caller
	modelID     string
	prompt      domain.Prompt
	image       *domain.ImageInput
	failMessage string
	failCode    string
}

// AnswerQuestion answers a free-form medical question.
func (o *Orchestrator) AnswerQuestion(ctx context.Context, req TextQuery) (*TextAnswer, error) {
	req.Question = strings.TrimSpace(req.Question)
	if err := o.validateRequest(ctx, &req, "Question is required"); err != nil {
		return nil, err
	}

	completion, meta, err := o.invoke(ctx, call{
		kind:        history.KindMedicalQuery,
		capability:  model.CapabilityTextGeneration,
		caller:      req.Caller,
		modelID:     req.ModelID,
		prompt:      domain.Prompt{Task: domain.TaskMedicalAnswer, Input: req.Question},
		failMessage: "Failed to process medical query",
		failCode:    "2f3d6a4c-9b1e-4f0a-8c52-6d7e1a9b3c01",
	})
	if err != nil {
		return nil, err
	}

	out := &TextAnswer{Text: completion.Text, Metadata: meta}
	o.record(ctx, req.Caller, history.KindMedicalQuery, req.Question, map[string]string{"answer": out.Text}, meta)
	return out, nil
}

// CheckSymptoms returns possible conditions and recommendations for a symptom description.
func (o *Orchestrator) CheckSymptoms(ctx context.Context, req SymptomCheck) (*SymptomAnalysis, error) {
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	if err := o.validateRequest(ctx, &req, "Symptoms description is required"); err != nil {
		return nil, err
	}

	completion, meta, err := o.invoke(ctx, call{
		kind:        history.KindSymptomCheck,
		capability:  model.CapabilityTextGeneration,
		caller:      req.Caller,
		modelID:     req.ModelID,
		prompt:      domain.Prompt{Task: domain.TaskSymptomAnalysis, Input: symptomInput(req), Structured: true},
		failMessage: "Failed to analyze symptoms",
		failCode:    "4a8e1c7d-2b6f-4e93-a0d5-7c1b9e3f5a02",
	})
	if err != nil {
		return nil, err
	}

	analysis, err := decodeSymptomAnalysis(o.validate, meta.providerKind(), completion.JSON)
	if err != nil {
		return nil, o.providerFailure(ctx, history.KindSymptomCheck, meta, err, "Failed to analyze symptoms", "4a8e1c7d-2b6f-4e93-a0d5-7c1b9e3f5a02")
	}
	analysis.Metadata = meta
	o.record(ctx, req.Caller, history.KindSymptomCheck, req.Symptoms, analysis, meta)
	return analysis, nil
}

// IdentifyMedicine identifies a medication from a photo.
func (o *Orchestrator) IdentifyMedicine(ctx context.Context, req ImageQuery) (*MedicineInfo, error) {
	mimeType, err := o.validateImage(ctx, req)
	if err != nil {
		return nil, err
	}

	completion, meta, err := o.invoke(ctx, call{
		kind:        history.KindMedicineScan,
		capability:  model.CapabilityImageAnalysis,
		caller:      req.Caller,
		modelID:     req.ModelID,
		prompt:      domain.Prompt{Task: domain.TaskMedicineIdentification, Structured: true},
		image:       &domain.ImageInput{Data: req.Image, MimeType: mimeType},
		failMessage: "Failed to analyze medicine image",
		failCode:    "8c2b5e9a-6d1f-4b7c-9e30-1a4d7f2c6b03",
	})
	if err != nil {
		return nil, err
	}

	info, err := decodeMedicineInfo(o.validate, meta.providerKind(), completion.JSON)
	if err != nil {
		return nil, o.providerFailure(ctx, history.KindMedicineScan, meta, err, "Failed to analyze medicine image", "8c2b5e9a-6d1f-4b7c-9e30-1a4d7f2c6b03")
	}
	info.Metadata = meta
	summary := fmt.Sprintf("%s image, %d bytes", mimeType, len(req.Image))
	o.record(ctx, req.Caller, history.KindMedicineScan, summary, info, meta)
	return info, nil
}

// HandleVoice answers a transcribed voice command. The personal tier gets keyword
// shortcuts and plain answers; the corporate tier gets model-driven intent detection.
func (o *Orchestrator) HandleVoice(ctx context.Context, req VoiceCommand) (*VoiceReply, error) {
	req.Transcript = strings.TrimSpace(req.Transcript)
	if err := o.validateRequest(ctx, &req, "Voice input is required"); err != nil {
		return nil, err
	}

	var (
		reply *VoiceReply
		err   error
	)
	if req.Tier == model.TierPersonal {
		reply, err = o.basicVoice(ctx, req)
	} else {
		reply, err = o.advancedVoice(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	o.record(ctx, req.Caller, history.KindVoiceInteraction, req.Transcript, reply, reply.Metadata)
	return reply, nil
}

func (o *Orchestrator) basicVoice(ctx context.Context, req VoiceCommand) (*VoiceReply, error) {
	if shortcut := matchVoiceShortcut(req.Transcript); shortcut != nil {
		return shortcut, nil
	}

	completion, meta, err := o.invoke(ctx, call{
		kind:        history.KindVoiceInteraction,
		capability:  model.CapabilityTextGeneration,
		caller:      req.Caller,
		modelID:     req.ModelID,
		prompt:      domain.Prompt{Task: domain.TaskMedicalAnswer, Input: req.Transcript},
		failMessage: "Failed to process voice command",
		failCode:    "5e7a3d1b-8c4f-4a26-b9d0-3f6c2e8a1d04",
	})
	if err != nil {
		return nil, err
	}
	return &VoiceReply{Text: completion.Text, SuggestedAction: ActionMedicalResponse, Metadata: meta}, nil
}

func (o *Orchestrator) advancedVoice(ctx context.Context, req VoiceCommand) (*VoiceReply, error) {
	completion, meta, err := o.invoke(ctx, call{
		kind:        history.KindVoiceInteraction,
		capability:  model.CapabilityVoiceProcessing,
		caller:      req.Caller,
		modelID:     req.ModelID,
		prompt:      domain.Prompt{Task: domain.TaskVoiceCommand, Input: req.Transcript, Structured: true},
		failMessage: "Failed to process voice command",
		failCode:    "5e7a3d1b-8c4f-4a26-b9d0-3f6c2e8a1d04",
	})
	if err != nil {
		return nil, err
	}

	reply, err := decodeVoiceReply(o.validate, meta.providerKind(), completion.JSON)
	if err != nil {
		return nil, o.providerFailure(ctx, history.KindVoiceInteraction, meta, err, "Failed to process voice command", "5e7a3d1b-8c4f-4a26-b9d0-3f6c2e8a1d04")
	}
	reply.Metadata = meta
	return reply, nil
}

// invoke resolves the model for c and performs the single upstream call.
func (o *Orchestrator) invoke(ctx context.Context, c call) (*domain.Completion, Metadata, error) {
	descriptor, err := o.resolve(ctx, c)
	if err != nil {
		return nil, Metadata{}, err
	}
	meta := Metadata{ModelID: descriptor.ID, Provider: string(descriptor.Provider)}

	adapter, err := o.adapters.AdapterFor(descriptor)
	if err != nil {
		return nil, meta, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			c.failMessage, err, "0d9c4b2a-7e1f-4c85-a3b6-9f2e5d8c1a05")
	}

	ctx, span := o.tracer.Start(ctx, "query."+string(c.kind), trace.WithAttributes(
		attribute.String("medisage.tier", string(c.caller.Tier)),
		attribute.String("medisage.capability", string(c.capability)),
		attribute.String("medisage.model_id", descriptor.ID),
		attribute.String("medisage.provider", string(descriptor.Provider)),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	var completion *domain.Completion
	if c.image != nil {
		completion, err = adapter.AnalyzeImage(callCtx, *c.image, c.prompt, descriptor)
	} else {
		completion, err = adapter.GenerateText(callCtx, c.prompt, descriptor)
	}
	meta.Latency = time.Since(start)
	metrics.RecordLLMCall(descriptor.ID, string(descriptor.Provider), string(c.kind), meta.Latency.Seconds())

	if err == nil && completion == nil {
		err = &domain.ProviderParseError{Provider: descriptor.Provider, Err: errors.New("adapter returned no completion")}
	}
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && domain.Classify(err) != "timeout" {
			err = &domain.ProviderTimeoutError{Provider: descriptor.Provider, After: o.timeout}
		}
		observability.RecordError(ctx, err)
		return nil, meta, o.providerFailure(ctx, c.kind, meta, err, c.failMessage, c.failCode)
	}

	if usage := completion.Usage; usage != nil {
		meta.Usage = usage
		metrics.RecordTokens(descriptor.ID, string(descriptor.Provider), usage.PromptTokens, usage.CompletionTokens)
		if !descriptor.Pricing.PromptPer1K.IsZero() || !descriptor.Pricing.CompletionPer1K.IsZero() {
			cost := descriptor.Pricing.EstimateCost(usage.PromptTokens, usage.CompletionTokens)
			meta.EstimatedCostUSD = &cost
		}
	}
	return completion, meta, nil
}

func (o *Orchestrator) resolve(ctx context.Context, c call) (model.Descriptor, error) {
	descriptor, err := o.router.SelectPreferred(c.caller.Tier, c.capability, c.modelID)
	if err == nil {
		return descriptor, nil
	}

	var denied *model.CapabilityDeniedError
	if errors.As(err, &denied) {
		metrics.RecordCapabilityDenied(string(c.caller.Tier), string(c.capability))
		o.log.Info().
			Str("tier", string(denied.Tier)).
			Str("capability", string(denied.Capability)).
			Str("model_id", denied.ModelID).
			Str("kind", string(c.kind)).
			Msg("capability denied for tier")
		return model.Descriptor{}, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			deniedMessage(denied), denied, CodeCapabilityDenied,
			map[string]any{"tier": string(denied.Tier), "capability": string(denied.Capability)})
	}
	return model.Descriptor{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		err.Error(), err, "6b1e8d3c-4a7f-4d29-8e05-2c9a7b4f1e06")
}

// CodeCapabilityDenied is the error code clients see for tier-gated features.
const CodeCapabilityDenied = "capability_denied"

func deniedMessage(denied *model.CapabilityDeniedError) string {
	if denied.ModelID != "" {
		return fmt.Sprintf("Model %s is not available for %s on your subscription tier", denied.ModelID, denied.Capability)
	}
	switch denied.Capability {
	case model.CapabilityImageAnalysis:
		return "Medicine scanning requires a corporate tier subscription"
	case model.CapabilityVoiceProcessing:
		return "Advanced voice processing requires a corporate tier subscription"
	}
	return fmt.Sprintf("%s is not available on your subscription tier", denied.Capability)
}

// providerFailure counts, logs and wraps an upstream failure. Clients only see message.
func (o *Orchestrator) providerFailure(ctx context.Context, kind history.Kind, meta Metadata, err error, message, code string) error {
	class := domain.Classify(err)
	metrics.RecordProviderError(meta.Provider, class)

	event := o.log.Error().
		Err(err).
		Str("kind", string(kind)).
		Str("model_id", meta.ModelID).
		Str("provider", meta.Provider).
		Str("error_class", class)
	var parseErr *domain.ProviderParseError
	if errors.As(err, &parseErr) && parseErr.Raw != "" {
		event = event.Str("raw_response", parseErr.Raw)
	}
	event.Msg("upstream model call failed")

	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, message, err, code,
		map[string]any{"provider": meta.Provider, "error_class": class})
}

// record hands a completed orchestration to the history gateway without waiting for it.
func (o *Orchestrator) record(ctx context.Context, caller Caller, kind history.Kind, summary string, result any, meta Metadata) {
	if o.history == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		o.log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to encode history result")
		return
	}
	o.history.Record(ctx, &history.Record{
		Kind:           kind,
		UserID:         caller.UserID,
		RequestSummary: summary,
		Result:         payload,
		ModelID:        meta.ModelID,
		Provider:       meta.Provider,
		Timestamp:      time.Now().UTC(),
	})
}

func (m Metadata) providerKind() model.ProviderKind {
	return model.ProviderKind(m.Provider)
}

func symptomInput(req SymptomCheck) string {
	var b strings.Builder
	b.WriteString("Symptoms: ")
	b.WriteString(req.Symptoms)
	if req.AgeGroup != "" {
		b.WriteString("\nAge: ")
		b.WriteString(req.AgeGroup)
	}
	if req.Gender != "" {
		b.WriteString("\nGender: ")
		b.WriteString(req.Gender)
	}
	if len(req.PreexistingConditions) > 0 {
		b.WriteString("\nExisting conditions: ")
		b.WriteString(strings.Join(req.PreexistingConditions, ", "))
	}
	return b.String()
}
