package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError is the single point where service errors become HTTP
// responses. Services log context themselves; this only maps and replies.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReportNotFound):
		RespondError(c, http.StatusNotFound, "Report not found")
	case errors.Is(err, ErrMatchNotFound):
		RespondError(c, http.StatusNotFound, "Match not found")
	case errors.Is(err, ErrUserNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrEmailTaken):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrInvalidStatus):
		RespondError(c, http.StatusBadRequest, "Invalid report status")
	case errors.Is(err, ErrInvalidKind):
		RespondError(c, http.StatusBadRequest, "Invalid report kind")
	case errors.Is(err, ErrEmbeddingUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "Embedding service unavailable")
	case errors.Is(err, ErrVectorIndexUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "Vector index unavailable")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
