package queryhandler

import (
	"context"
	"io"
	"mime/multipart"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/query"
	"medisage-api/internal/interfaces/httpserver/requests/queryreq"
	"medisage-api/internal/interfaces/httpserver/responses/queryres"
	"medisage-api/internal/utils/platformerrors"
)

// QueryHandler maps HTTP payloads onto the query orchestrator.
type QueryHandler struct {
	orchestrator  *query.Orchestrator
	maxImageBytes int64
}

func NewQueryHandler(cfg *config.Config, orchestrator *query.Orchestrator) *QueryHandler {
	maxImage := cfg.MaxUploadBytes
	if maxImage <= 0 {
		maxImage = query.DefaultMaxImageBytes
	}
	return &QueryHandler{orchestrator: orchestrator, maxImageBytes: maxImage}
}

// MaxImageBytes is the largest accepted upload.
func (h *QueryHandler) MaxImageBytes() int64 {
	return h.maxImageBytes
}

func (h *QueryHandler) MedicalQuery(ctx context.Context, caller query.Caller, req queryreq.MedicalQueryRequest) (*queryres.MedicalQueryResponse, error) {
	answer, err := h.orchestrator.AnswerQuestion(ctx, query.TextQuery{
		Caller:   caller,
		Question: req.Question,
		ModelID:  req.Model,
	})
	if err != nil {
		return nil, err
	}
	res := queryres.NewMedicalQueryResponse(answer)
	return &res, nil
}

func (h *QueryHandler) SymptomCheck(ctx context.Context, caller query.Caller, req queryreq.SymptomCheckRequest) (*queryres.SymptomCheckResponse, error) {
	analysis, err := h.orchestrator.CheckSymptoms(ctx, query.SymptomCheck{
		Caller:                caller,
		Symptoms:              req.Symptoms,
		AgeGroup:              req.Age,
		Gender:                req.Gender,
		PreexistingConditions: req.Conditions,
		ModelID:               req.Model,
	})
	if err != nil {
		return nil, err
	}
	res := queryres.NewSymptomCheckResponse(analysis)
	return &res, nil
}

// MedicineScan reads the uploaded image, refusing anything over the size bound before the
// whole file is buffered.
func (h *QueryHandler) MedicineScan(ctx context.Context, caller query.Caller, file *multipart.FileHeader, modelID string) (*queryres.MedicineScanResponse, error) {
	if file == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Image file is required", nil, "7cbf5d36-8a4b-4ec0-f9da-6bd0d5ebc277")
	}
	if file.Size > h.maxImageBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Image exceeds the upload limit", nil, "8dc06e47-9b5c-4fd1-a0eb-7ce1e6fcd388")
	}

	f, err := file.Open()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Image file could not be read", err, "9ed17f58-ac6d-40e2-b1fc-8df2f70dde99")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxImageBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Image file could not be read", err, "9ed17f58-ac6d-40e2-b1fc-8df2f70dde99")
	}

	info, err := h.orchestrator.IdentifyMedicine(ctx, query.ImageQuery{
		Caller:   caller,
		Image:    data,
		MimeType: file.Header.Get("Content-Type"),
		ModelID:  modelID,
	})
	if err != nil {
		return nil, err
	}
	res := queryres.NewMedicineScanResponse(info)
	return &res, nil
}

func (h *QueryHandler) VoiceAssistant(ctx context.Context, caller query.Caller, req queryreq.VoiceAssistantRequest) (*queryres.VoiceAssistantResponse, error) {
	reply, err := h.orchestrator.HandleVoice(ctx, query.VoiceCommand{
		Caller:     caller,
		Transcript: req.Input,
		ModelID:    req.Model,
	})
	if err != nil {
		return nil, err
	}
	res := queryres.NewVoiceAssistantResponse(reply)
	return &res, nil
}
