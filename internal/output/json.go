package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion string            `json:"schema_version"`
	Success       bool              `json:"success"`
	Data          interface{}       `json:"data,omitempty"`
	Error         string            `json:"error,omitempty"`
	ErrorCode     string            `json:"error_code,omitempty"`
	ErrorContext  map[string]string `json:"error_context,omitempty"`
}

// codedError is the error surface Error enriches responses from.
// models.DomainError satisfies it.
type codedError interface {
	error
	ErrorCode() string
	Context() map[string]string
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response. Domain errors carry their
// machine-readable code and context through to the envelope.
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var ce codedError
	if errors.As(err, &ce) {
		resp.ErrorCode = ce.ErrorCode()
		resp.ErrorContext = ce.Context()
	}
	return resp
}

// Config controls where and how JSON is written.
type Config struct {
	Writer io.Writer
	Pretty bool
}

// DefaultConfig writes compact JSON to stdout.
// Enable pretty JSON for humans via env var: TASKMILL_PRETTY_JSON=1.
func DefaultConfig() Config {
	pretty := os.Getenv("TASKMILL_PRETTY_JSON") == "1" || os.Getenv("TASKMILL_PRETTY_JSON") == "true"
	return Config{Writer: os.Stdout, Pretty: pretty}
}

// PrintWith prints a value as JSON using the given config.
func PrintWith(cfg Config, v interface{}) error {
	enc := json.NewEncoder(cfg.Writer)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Print prints a value as JSON to stdout
func Print(v interface{}) error {
	return PrintWith(DefaultConfig(), v)
}

// PrintSuccess prints a success response
func PrintSuccess(data interface{}) error {
	return Print(Success(data))
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Error(err))
}

// Keep output package focused: commands should handle human-readable formatting.
