package core

import (
	"errors"
	"net/http"
	"testing"
)

func TestCompletionError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CompletionError
		want string
	}{
		{
			name: "with provider",
			err:  NewBackendError("fireworks", 502, "upstream exploded", nil),
			want: "[fireworks] backend_error: upstream exploded",
		},
		{
			name: "without provider",
			err:  NewInvalidRequestError("bad prompt", nil),
			want: "invalid_request_error: bad prompt",
		},
		{
			name: "configuration",
			err:  NewConfigurationError(`unknown model "starcoder-17b"`),
			want: `configuration_error: unknown model "starcoder-17b"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompletionError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewBackendError("fireworks", 502, "request failed", inner)
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestCompletionError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *CompletionError
		want int
	}{
		{"explicit status wins", &CompletionError{Type: ErrorTypeBackend, StatusCode: 503}, 503},
		{"rate limit default", &CompletionError{Type: ErrorTypeRateLimit}, http.StatusTooManyRequests},
		{"invalid request default", &CompletionError{Type: ErrorTypeInvalidRequest}, http.StatusBadRequest},
		{"configuration default", &CompletionError{Type: ErrorTypeConfiguration}, http.StatusBadRequest},
		{"authentication default", &CompletionError{Type: ErrorTypeAuthentication}, http.StatusUnauthorized},
		{"backend default", &CompletionError{Type: ErrorTypeBackend}, http.StatusBadGateway},
		{"unknown type", &CompletionError{Type: ErrorType("mystery")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBackendError(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		body        string
		wantType    ErrorType
		wantMessage string
	}{
		{
			name:        "structured error body",
			statusCode:  500,
			body:        `{"error": {"message": "model overloaded", "type": "server_error"}}`,
			wantType:    ErrorTypeBackend,
			wantMessage: "model overloaded",
		},
		{
			name:        "plain text body",
			statusCode:  502,
			body:        "bad gateway",
			wantType:    ErrorTypeBackend,
			wantMessage: "bad gateway",
		},
		{
			name:        "unauthorized",
			statusCode:  401,
			body:        `{"error": {"message": "invalid token"}}`,
			wantType:    ErrorTypeAuthentication,
			wantMessage: "invalid token",
		},
		{
			name:        "rate limited",
			statusCode:  429,
			body:        `{"error": {"message": "slow down"}}`,
			wantType:    ErrorTypeRateLimit,
			wantMessage: "slow down",
		},
		{
			name:        "client error keeps status",
			statusCode:  422,
			body:        `{"error": {"message": "prompt too long"}}`,
			wantType:    ErrorTypeInvalidRequest,
			wantMessage: "prompt too long",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseBackendError("fireworks", tt.statusCode, []byte(tt.body), nil)
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
		})
	}
}

func TestParseBackendError_ClientErrorStatusPreserved(t *testing.T) {
	err := ParseBackendError("fireworks", 422, []byte("nope"), nil)
	if err.StatusCode != 422 {
		t.Errorf("StatusCode = %d, want 422", err.StatusCode)
	}
	if err.Provider != "fireworks" {
		t.Errorf("Provider = %q, want %q", err.Provider, "fireworks")
	}
}
