package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestStoreWriteError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WriteFailed("add item", cause)

	if !IsWriteError(err) {
		t.Fatal("expected StoreWriteError")
	}
	if !errors.Is(err, cause) {
		t.Error("expected StoreWriteError to unwrap to its cause")
	}
	if err.Error() != "add item: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsWriteError(wrapped) {
		t.Error("expected wrapped StoreWriteError to be detected")
	}

	if WriteFailed("noop", nil) != nil {
		t.Error("expected nil for nil cause")
	}
	if IsWriteError(cause) {
		t.Error("plain error is not a write error")
	}
}

func TestAuthMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "invalid credential", err: NewAuthError(CodeInvalidCredential, nil), want: "Username or password is incorrect"},
		{name: "rate limited", err: NewAuthError(CodeTooManyRequests, nil), want: "Too many attempts, please wait and try again"},
		{name: "duplicate account", err: NewAuthError(CodeEmailInUse, nil), want: "This username is already taken"},
		{name: "weak secret", err: NewAuthError(CodeWeakPassword, nil), want: "Password must be at least 6 characters"},
		{name: "wrapped", err: fmt.Errorf("login: %w", NewAuthError(CodeWrongPassword, nil)), want: "Wrong password"},
		{name: "unmapped code", err: NewAuthError("auth/quota-exceeded", nil), want: GenericAuthMessage},
		{name: "not an auth error", err: errors.New("boom"), want: GenericAuthMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthMessage(tt.err); got != tt.want {
				t.Errorf("AuthMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
