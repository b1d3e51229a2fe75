// Package errors provides the error taxonomy for the dscli chat client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrInvalidMessages = errors.New("invalid message sequence")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrUnexpectedEOF   = errors.New("stream ended without terminal sentinel")
	ErrNoAPIKey        = errors.New("no API key available")
)

// ValidationError reports a malformed message sequence or a response that
// failed the expected-shape check. It is never retried.
type ValidationError struct {
	Message string
	Path    string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("validation error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ValidationError) Is(target error) bool {
	if target == ErrInvalidMessages || target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError
func NewValidationError(message, path string) *ValidationError {
	return &ValidationError{Message: message, Path: path}
}

// ProtocolError reports an unexpected content type or a stream that ended
// without its terminal sentinel.
type ProtocolError struct {
	Message     string
	ContentType string
	Err         error
}

func (e *ProtocolError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("protocol error: %s (content type %q)", e.Message, e.ContentType)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NewProtocolError creates a new ProtocolError
func NewProtocolError(message, contentType string) *ProtocolError {
	return &ProtocolError{Message: message, ContentType: contentType}
}

// AuthError represents an authentication failure (HTTP 401)
type AuthError struct {
	Message  string
	Endpoint string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: API key may be invalid"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// APIError represents a non-success HTTP status from the completion service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError carrying the response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NetworkError represents a failure to reach the completion service
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
	Err     error
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// WrapTransportError turns a raw transport failure into a NetworkError or
// TimeoutError. Errors that are already typed are returned unchanged.
func WrapTransportError(operation, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	var (
		netErr     *NetworkError
		timeoutErr *TimeoutError
	)
	if errors.As(err, &netErr) || errors.As(err, &timeoutErr) {
		return err
	}
	if isTimeout(err) {
		return &TimeoutError{Message: operation, Err: err}
	}
	return NewNetworkError(operation, endpoint, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthFailed) {
		return true
	}
	return GetHTTPStatus(err) == http.StatusUnauthorized
}

// IsNetworkError reports whether err is a connection failure
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var e *TimeoutError
	if errors.As(err, &e) {
		return true
	}
	return isTimeout(err)
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsProtocolError reports whether err is a ProtocolError
func IsProtocolError(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}

// GetHTTPStatus extracts the HTTP status code, or 0 if none
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	return 0
}

// GetEndpoint extracts the endpoint associated with err, if any
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the HTTP response body attached to err, if any
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
