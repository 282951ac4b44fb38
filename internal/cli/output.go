package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/infradash/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeUnreachable    = "BACKEND_UNREACHABLE"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeNotConnected   = "NOT_CONNECTED"
	ErrCodeLoadFailed     = "LOAD_FAILED"
	ErrCodeVoteRejected   = "VOTE_REJECTED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// WriteYAML writes data as a YAML document.
func WriteYAML(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var idErr *errors.Error
	if stderrors.As(err, &idErr) {
		jsonErr := &JSONError{
			Code:       mapErrorCode(idErr),
			Message:    idErr.Message,
			Suggestion: idErr.Suggestion,
		}
		if idErr.Cause != nil {
			jsonErr.Details = errors.Summary(idErr.Cause)
		}
		return jsonErr
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: errors.Summary(err),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(err *errors.Error) string {
	switch err.Code {
	case errors.ErrConfig:
		if err.Cause != nil && stderrors.Is(err.Cause, fs.ErrNotExist) {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrTransport:
		return ErrCodeUnreachable
	case errors.ErrTimeout:
		return ErrCodeTimeout
	case errors.ErrProbe:
		return ErrCodeNotConnected
	case errors.ErrLoad:
		return ErrCodeLoadFailed
	case errors.ErrVote:
		return ErrCodeVoteRejected
	}
	return ErrCodeUnknown
}
