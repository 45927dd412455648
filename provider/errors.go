package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"ragai/model"
)

// Sentinel errors. Callers should use errors.Is/errors.As.
var (
	// ErrConfiguration means no usable provider could be selected. It is
	// returned at construction time and is fatal.
	ErrConfiguration = errors.New("provider: configuration error")

	ErrRateLimited          = errors.New("provider: rate limited")
	ErrAuthenticationFailed = errors.New("provider: authentication failed")
	ErrProviderUnavailable  = errors.New("provider: unavailable")
	ErrExecution            = errors.New("provider: execution error")

	// ErrEmptyResponse means the provider answered with no content at all.
	ErrEmptyResponse = errors.New("provider: empty response")
)

// ErrorKind classifies a failed generation.
type ErrorKind int

const (
	KindProviderUnavailable ErrorKind = iota
	KindRateLimited
	KindAuthenticationFailed
	KindExecution
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindExecution:
		return "execution error"
	default:
		return "provider unavailable"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindAuthenticationFailed:
		return ErrAuthenticationFailed
	case KindExecution:
		return ErrExecution
	default:
		return ErrProviderUnavailable
	}
}

// APIError is a classified provider failure.
//
// Error() never includes the provider's response body or request details, so
// it is safe to show to end users. The wrapped error keeps the full detail.
type APIError struct {
	Kind       ErrorKind
	Provider   model.ProviderID
	StatusCode int
	Err        error
}

// Error implements error.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

// Unwrap returns the underlying transport or SDK error.
func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *APIError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

var _ error = (*APIError)(nil)

// Classify maps a transport or SDK failure to an *APIError and logs the full
// diagnostic. Errors that are already classified are returned unchanged.
func Classify(p model.ProviderID, err error, logger *zap.Logger) error {
	if err == nil {
		return nil
	}

	var classified *APIError
	if errors.As(err, &classified) {
		return err
	}

	status, body := statusAndBody(err)
	apiErr := &APIError{
		Kind:       kindForStatus(status),
		Provider:   p,
		StatusCode: status,
		Err:        err,
	}

	fields := []zap.Field{
		zap.String("provider", string(p)),
		zap.Stringer("kind", apiErr.Kind),
	}
	if status != 0 {
		fields = append(fields, zap.Int("status", status), zap.String("body", body))
	} else {
		fields = append(fields, zap.Error(err))
	}
	logger.Error("provider request failed", fields...)

	return apiErr
}

// ExecutionError wraps a local fault that happened while driving a provider
// exchange, outside per-call tool isolation.
func ExecutionError(p model.ProviderID, err error) error {
	return &APIError{Kind: KindExecution, Provider: p, Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthenticationFailed
	default:
		return KindProviderUnavailable
	}
}

func statusAndBody(err error) (int, string) {
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode, anthropicErr.RawJSON()
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode, openaiErr.RawJSON()
	}

	return 0, ""
}
