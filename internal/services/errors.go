package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrGeneration    = errors.New("storyboard generation error")
	ErrSynthesis     = errors.New("speech synthesis error")
	ErrExternalTool  = errors.New("external tool error")
	ErrRender        = errors.New("render error")
	ErrConfiguration = errors.New("configuration error")
	ErrBusy          = errors.New("server busy")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a categorized request failure to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message a client is allowed to see for err.
// Validation and generation failures carry their detail; everything else is
// reduced to a generic line and the detail stays in the server log.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrGeneration):
		return err.Error()
	case errors.Is(err, ErrSynthesis):
		return "speech synthesis failed; see server logs for details"
	case errors.Is(err, ErrExternalTool):
		return "video encoding failed; see server logs for details"
	case errors.Is(err, ErrRender):
		return "frame rendering failed; see server logs for details"
	case errors.Is(err, ErrBusy):
		return "server busy; retry later"
	case errors.Is(err, ErrTimeout):
		return "request timed out"
	case errors.Is(err, ErrConfiguration):
		return "server misconfigured; see server logs for details"
	default:
		return "internal error"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
