package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/parsing"
	"github.com/jonathan/gift-finder/internal/pipeline"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream provider failures are 502 unless the provider rate limited us.
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var requestInvalid *parsing.ValidationError
	var stageErr *pipeline.StageError

	switch {
	case errors.As(err, &validation), errors.As(err, &requestInvalid):
		return http.StatusBadRequest
	case llm.IsRateLimited(err):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &stageErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		resp.Stage = stageErr.Stage
	}
	return resp
}
