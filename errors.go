package gotdt

import "fmt"

// Validation error codes. They double as the error_code field of HTTP
// error responses.
const (
	CodeEmptyText           = "EMPTY_TEXT"
	CodeTextTooLong         = "TEXT_TOO_LONG"
	CodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidTerm         = "INVALID_TERM"
)

// ConfigurationError reports missing or invalid settings, such as absent
// provider credentials. It is fatal at construction time.
type ConfigurationError struct {
	Message string
	Missing []string // Names of missing settings, if any
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Message
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(" (missing: %v)", e.Missing)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates malformed input. It is never retried.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ProviderError indicates a failed call to the translation backend.
type ProviderError struct {
	Message    string
	Cause      error
	StatusCode int // HTTP status from the backend, 0 if none
}

func (e *ProviderError) Error() string {
	msg := "provider error: " + e.Message
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ChunkTranslationError records the failure of a single chunk. The pipeline
// logs it and keeps the chunk's original text.
type ChunkTranslationError struct {
	Index int
	Cause error
}

func (e *ChunkTranslationError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Cause)
}

func (e *ChunkTranslationError) Unwrap() error {
	return e.Cause
}

// InternalError wraps any unexpected failure inside the pipeline.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return "internal error: " + e.Cause.Error()
	}
	return "internal error"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure. Cache errors never fail a
// translation.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
