package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/infrastructure/observability"
	"medisage-api/internal/utils/platformerrors"
)

// ErrorResponse is the error envelope. Message is always present and never carries upstream text.
type ErrorResponse struct {
	Code          string `json:"code,omitempty"`
	Error         string `json:"error"`
	Message       string `json:"message"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
	TraceID       string `json:"trace_id,omitempty"`
}

// HandleError renders err. Platform errors choose the status and supply the client message;
// fallback is used for anything else.
func HandleError(reqCtx *gin.Context, err error, fallback string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		message := domainErr.Message
		if message == "" {
			message = fallback
		}
		_ = reqCtx.Error(domainErr)
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType()), ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         message,
			Message:       message,
			ErrorInstance: domainErr,
			RequestID:     requestID(reqCtx, domainErr),
			TraceID:       observability.GetTraceID(reqCtx.Request.Context()),
		})
		return
	}

	if err != nil {
		_ = reqCtx.Error(err)
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:         fallback,
		Message:       fallback,
		ErrorInstance: err,
		RequestID:     requestID(reqCtx, nil),
		TraceID:       observability.GetTraceID(reqCtx.Request.Context()),
	})
}

// HandleNewError creates a typed error at the route layer and renders it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid)
	HandleError(reqCtx, err, message)
}

func requestID(reqCtx *gin.Context, err *platformerrors.PlatformError) string {
	if err != nil && err.GetRequestID() != "" {
		return err.GetRequestID()
	}
	return reqCtx.GetString("request_id")
}

// ListResponse wraps one page of results.
type ListResponse[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
