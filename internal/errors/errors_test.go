package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestAuthError(t *testing.T) {
	err := NewAuthError("test auth error")

	expected := "authentication failed: test auth error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !err.Is(NewAuthError("target")) {
		t.Error("Expected error to be auth error type")
	}

	if err.Is(NewAPIError(400, "test", "other error")) {
		t.Error("Expected error not to match different type")
	}

	if !errors.Is(fmt.Errorf("wrapped: %w", err), ErrAuthFailed) {
		t.Error("wrapped AuthError should match ErrAuthFailed")
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test-endpoint", "test API error")

	expected := "API error [400] at test-endpoint: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "test-endpoint", "boom")
	if noStatus.Error() != "API error at test-endpoint: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("bad role", "messages.1.role")

	expected := "validation error at messages.1.role: bad role"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrInvalidMessages) {
		t.Error("ValidationError should match ErrInvalidMessages")
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ValidationError should match ErrInvalidResponse")
	}
	if NewValidationError("x", "").Error() != "validation error: x" {
		t.Error("unexpected message without path")
	}
}

func TestProtocolError(t *testing.T) {
	err := NewProtocolError("unexpected content type", "application/json")
	if !IsProtocolError(fmt.Errorf("wrap: %w", err)) {
		t.Error("IsProtocolError should see through wrapping")
	}

	eof := &ProtocolError{Message: "stream closed", Err: ErrUnexpectedEOF}
	if !errors.Is(eof, ErrUnexpectedEOF) {
		t.Error("ProtocolError should unwrap to ErrUnexpectedEOF")
	}
}

type fakeNetErr struct{ timeout bool }

func (e fakeNetErr) Error() string   { return "fake net error" }
func (e fakeNetErr) Timeout() bool   { return e.timeout }
func (e fakeNetErr) Temporary() bool { return false }

var _ net.Error = fakeNetErr{}

func TestWrapTransportError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantTimeout bool
		wantNetwork bool
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), false, true},
		{"deadline", context.DeadlineExceeded, true, false},
		{"net timeout", fakeNetErr{timeout: true}, true, false},
		{"net non-timeout", fakeNetErr{timeout: false}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapTransportError("chat completion", "https://example.test", tt.err)
			var timeoutErr *TimeoutError
			if errors.As(got, &timeoutErr) != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v (%v)", !tt.wantTimeout, tt.wantTimeout, got)
			}
			if IsNetworkError(got) != tt.wantNetwork {
				t.Errorf("IsNetworkError = %v, want %v", !tt.wantNetwork, tt.wantNetwork)
			}
		})
	}

	if WrapTransportError("op", "", nil) != nil {
		t.Error("nil error should stay nil")
	}

	already := NewTimeoutError("x")
	if WrapTransportError("op", "", already) != error(already) {
		t.Error("typed errors should be returned unchanged")
	}
}

func TestHelpers(t *testing.T) {
	apiErr := NewAPIErrorWithBody(503, "https://example.test/chat", "unavailable", `{"error":"busy"}`)

	if GetHTTPStatus(apiErr) != 503 {
		t.Errorf("GetHTTPStatus = %d", GetHTTPStatus(apiErr))
	}
	if GetEndpoint(apiErr) != "https://example.test/chat" {
		t.Errorf("GetEndpoint = %s", GetEndpoint(apiErr))
	}
	if GetResponseBody(apiErr) != `{"error":"busy"}` {
		t.Errorf("GetResponseBody = %s", GetResponseBody(apiErr))
	}
	if GetHTTPStatus(errors.New("plain")) != 0 {
		t.Error("plain errors have no status")
	}
	if !IsAuthError(NewAPIError(401, "x", "unauthorized")) {
		t.Error("HTTP 401 should be an auth error")
	}
	if GetHTTPStatus(NewAuthError("")) != 401 {
		t.Error("AuthError should report 401")
	}
}
