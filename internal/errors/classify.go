package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the failure class used by the retry policy.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindTimeout
	KindHTTP
	KindAuth
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Classification describes one failure. It is created per failure and
// discarded after use.
type Classification struct {
	Kind      Kind
	Message   string
	Retryable bool
	Err       error
}

// KindOf maps an error to its kind. Validation and protocol errors are
// reported as unknown so they are never retried.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case IsValidationError(err), IsProtocolError(err):
		return KindUnknown
	case IsTimeoutError(err):
		return KindTimeout
	case IsNetworkError(err):
		return KindConnection
	case GetHTTPStatus(err) == http.StatusUnauthorized:
		return KindAuth
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindHTTP
	}
	return KindUnknown
}

// Classify builds the Classification for err. Retryable reflects the
// retry table only and ignores attempt counts.
func Classify(err error) Classification {
	kind := KindOf(err)
	return Classification{
		Kind:      kind,
		Message:   describe(kind, err),
		Retryable: RetryableKind(kind),
		Err:       err,
	}
}

// RetryableKind reports whether failures of kind k are worth another
// attempt. Auth stays in the retry table although the same credential will
// fail again.
// TODO: stop retrying auth once the key can be re-entered mid-session.
func RetryableKind(k Kind) bool {
	switch k {
	case KindConnection, KindTimeout, KindAuth:
		return true
	default:
		return false
	}
}

func describe(kind Kind, err error) string {
	switch kind {
	case KindConnection:
		return "Connection error: unable to reach the API server"
	case KindTimeout:
		return "Timeout error: the request timed out"
	case KindHTTP:
		return fmt.Sprintf("HTTP error: %v", err)
	case KindAuth:
		return "Authentication error: the API key is invalid or missing, check DEEPSEEK_API_KEY"
	default:
		if err == nil {
			return "Unknown error"
		}
		return fmt.Sprintf("Unknown error: %v", err)
	}
}
