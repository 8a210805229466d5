package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	traceID := c.GetString("trace_id")
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	traceID := c.GetString("trace_id")
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID,
	})
}

// HandleServiceError maps the service-layer error taxonomy onto HTTP codes.
// Upstream failures (network, malformed plans) become 502 so the caller can
// distinguish "the planner is broken" from "your request is broken".
func HandleServiceError(c *gin.Context, err error) {
	var (
		malformed  *MalformedPlanError
		network    *NetworkError
		blocked    *BlockedEditError
		validation *ValidationError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: validation.Error(),
			TraceID: c.GetString("trace_id"),
			Data:    validation.Fields,
		})
	case errors.As(err, &blocked):
		RespondError(c, http.StatusConflict, blocked.Error())
	case errors.As(err, &malformed):
		log.Printf("Malformed planner response: %v", malformed)
		RespondError(c, http.StatusBadGateway, malformed.Error())
	case errors.As(err, &network):
		log.Printf("Planning service error: %v", network)
		RespondError(c, http.StatusBadGateway, "Planning service unavailable")
	case errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "Plan not found")
	case errors.Is(err, ErrConversationNotFound):
		RespondError(c, http.StatusNotFound, "Conversation not found")
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Edit session not found")
	case errors.Is(err, ErrDayNotFound), errors.Is(err, ErrActivityNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoActiveConversation), errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
