package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  NewNotFound("session", "session_20240101_120000"),
			want: "session 'session_20240101_120000' not found",
		},
		{
			name: "conflict",
			err:  NewConflict("session", "work"),
			want: "session 'work' already exists",
		},
		{
			name: "validation with format args",
			err:  NewValidation("invalid limit: %d", -1),
			want: "invalid limit: -1",
		},
		{
			name: "configuration without cause",
			err:  NewConfiguration("gemini provider requires GOOGLE_API_KEY", nil),
			want: "gemini provider requires GOOGLE_API_KEY",
		},
		{
			name: "configuration with cause",
			err:  NewConfiguration("bad memory path", errors.New("permission denied")),
			want: "bad memory path: permission denied",
		},
		{
			name: "api error with status",
			err:  &APIError{Provider: "gemini", StatusCode: 429, Message: "quota exceeded"},
			want: "gemini api error (status 429): quota exceeded",
		},
		{
			name: "api error transport",
			err:  &APIError{Provider: "ollama", Err: errors.New("connection refused")},
			want: "ollama api error: connection refused",
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

func TestClassifiersMatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading session: %w", NewNotFound("session", "s1"))
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound(wrapped) = false, want true")
	}
	if IsConflict(wrapped) || IsValidation(wrapped) || IsConfiguration(wrapped) || IsAPIError(wrapped) {
		t.Error("wrapped not-found matched an unrelated classifier")
	}

	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound(plain error) = true, want false")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true, want false")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &APIError{Provider: "ollama", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(APIError, cause) = false, want true")
	}

	confErr := NewConfiguration("bad vector backend", cause)
	if !errors.Is(confErr, cause) {
		t.Error("errors.Is(ConfigurationError, cause) = false, want true")
	}
}
