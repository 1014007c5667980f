package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/httpclient"
)

var errRequestTooLarge = errors.New("request too large")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var upstream *entity.UpstreamError
	switch {
	case errors.Is(err, errRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, httpclient.ErrPublisherInsufficientBalance):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstream):
		if upstream.StatusCode >= 400 && upstream.StatusCode < 600 {
			return upstream.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{
		Error:     err.Error(),
		RequestID: c.GetString(requestIDKey),
	})
}
