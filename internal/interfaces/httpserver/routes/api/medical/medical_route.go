package medical

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/interfaces/httpserver/handlers/queryhandler"
	middleware "medisage-api/internal/interfaces/httpserver/middlewares"
	"medisage-api/internal/interfaces/httpserver/requests/queryreq"
	"medisage-api/internal/interfaces/httpserver/responses"
	"medisage-api/internal/utils/platformerrors"
)

// multipartOverhead leaves room for form boundaries and headers around the image part.
const multipartOverhead = 1 << 20

type MedicalRoute struct {
	handler     *queryhandler.QueryHandler
	defaultTier model.Tier
}

func NewMedicalRoute(cfg *config.Config, handler *queryhandler.QueryHandler) *MedicalRoute {
	return &MedicalRoute{handler: handler, defaultTier: middleware.DefaultTier(cfg)}
}

func (route *MedicalRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/medical-query", route.MedicalQuery)
	router.POST("/symptom-checker", route.SymptomChecker)
	router.POST("/medicine-scanner", route.MedicineScanner)
	router.POST("/voice-assistant", route.VoiceAssistant)
}

// MedicalQuery
// @Summary Ask a medical question
// @Description Answers a free-form medical question with the model selected for the caller's tier.
// @Tags Medical
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body queryreq.MedicalQueryRequest true "Question"
// @Success 200 {object} queryres.MedicalQueryResponse
// @Failure 400 {object} responses.ErrorResponse "Question is required"
// @Failure 403 {object} responses.ErrorResponse "Model not available on this tier"
// @Failure 500 {object} responses.ErrorResponse "Failed to process medical query"
// @Router /api/medical-query [post]
func (route *MedicalRoute) MedicalQuery(reqCtx *gin.Context) {
	var req queryreq.MedicalQueryRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Invalid request body", "d1253b92-e02a-4426-f53a-c1363b422bdd")
		return
	}

	res, err := route.handler.MedicalQuery(reqCtx.Request.Context(), middleware.CallerFromContext(reqCtx, route.defaultTier), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process medical query")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}

// SymptomChecker
// @Summary Analyze symptoms
// @Description Returns possible conditions with a likelihood and general recommendations. Conditions may be a list or a {name: bool} map.
// @Tags Medical
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body queryreq.SymptomCheckRequest true "Symptoms"
// @Success 200 {object} queryres.SymptomCheckResponse
// @Failure 400 {object} responses.ErrorResponse "Symptoms description is required"
// @Failure 500 {object} responses.ErrorResponse "Failed to analyze symptoms"
// @Router /api/symptom-checker [post]
func (route *MedicalRoute) SymptomChecker(reqCtx *gin.Context) {
	var req queryreq.SymptomCheckRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Invalid request body", "e2364ca3-f13b-4537-a64b-d2474c533cee")
		return
	}

	res, err := route.handler.SymptomCheck(reqCtx.Request.Context(), middleware.CallerFromContext(reqCtx, route.defaultTier), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to analyze symptoms")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}

// MedicineScanner
// @Summary Identify a medicine from a photo
// @Description Corporate tier only. Accepts one image up to the configured upload limit.
// @Tags Medical
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Medicine photo"
// @Param model formData string false "Model id"
// @Success 200 {object} queryres.MedicineScanResponse
// @Failure 400 {object} responses.ErrorResponse "Missing, oversized or non-image upload"
// @Failure 403 {object} responses.ErrorResponse "Medicine scanning requires a corporate tier subscription"
// @Failure 500 {object} responses.ErrorResponse "Failed to analyze medicine image"
// @Router /api/medicine-scanner [post]
func (route *MedicalRoute) MedicineScanner(reqCtx *gin.Context) {
	reqCtx.Request.Body = http.MaxBytesReader(reqCtx.Writer, reqCtx.Request.Body, route.handler.MaxImageBytes()+multipartOverhead)

	file, err := reqCtx.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Image exceeds the upload limit", "f3475db4-024c-4648-b75c-e3585d644dff")
			return
		}
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Image file is required", "04586ec5-135d-4759-c86d-f4696e755e00")
		return
	}

	res, err := route.handler.MedicineScan(reqCtx.Request.Context(), middleware.CallerFromContext(reqCtx, route.defaultTier), file, reqCtx.PostForm("model"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to analyze medicine image")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}

// VoiceAssistant
// @Summary Answer a voice command
// @Description Takes a transcript. Personal tier gets keyword shortcuts and plain answers; corporate tier gets intent detection.
// @Tags Medical
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body queryreq.VoiceAssistantRequest true "Transcript"
// @Success 200 {object} queryres.VoiceAssistantResponse
// @Failure 400 {object} responses.ErrorResponse "Voice input is required"
// @Failure 500 {object} responses.ErrorResponse "Failed to process voice command"
// @Router /api/voice-assistant [post]
func (route *MedicalRoute) VoiceAssistant(reqCtx *gin.Context) {
	var req queryreq.VoiceAssistantRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Invalid request body", "15697fd6-246e-486a-d97e-a57a7f866f11")
		return
	}

	res, err := route.handler.VoiceAssistant(reqCtx.Request.Context(), middleware.CallerFromContext(reqCtx, route.defaultTier), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process voice command")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}
