package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "error field", body: `{"error":"Task not found"}`, wantMsg: "Task not found"},
		{name: "message field", body: `{"message":"Validation failed"}`, wantMsg: "Validation failed"},
		{name: "plain text", body: "  upstream timeout \n", wantMsg: "upstream timeout"},
		{name: "empty", body: "", wantMsg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(400, []byte(tt.body))
			if err.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, err.Message)
			}
		})
	}
}

func TestAPIErrorHelpers(t *testing.T) {
	tests := []struct {
		status int
		check  func(*APIError) bool
	}{
		{404, (*APIError).IsNotFound},
		{401, (*APIError).IsUnauthorized},
		{403, (*APIError).IsForbidden},
		{429, (*APIError).IsRateLimited},
		{503, (*APIError).IsServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := &APIError{StatusCode: tt.status}
			if !tt.check(err) {
				t.Errorf("helper returned false for status %d", tt.status)
			}
		})
	}

	if (&APIError{StatusCode: 404}).IsServerError() {
		t.Error("404 must not be a server error")
	}
}

func TestIsAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to get tasks: %w", &APIError{StatusCode: 401, Message: "expired"})

	apiErr, ok := IsAPIError(wrapped)
	if !ok {
		t.Fatal("expected wrapped APIError to be found")
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}

	if _, ok := IsAPIError(errors.New("plain")); ok {
		t.Error("plain error must not be reported as APIError")
	}
}

func TestValidateRequest(t *testing.T) {
	hours := -1.0
	tests := []struct {
		name    string
		body    interface{}
		wantErr bool
	}{
		{name: "valid task", body: CreateTaskRequest{Title: "x", ProjectID: "p"}},
		{name: "date-only due", body: CreateTaskRequest{Title: "x", ProjectID: "p", DueDate: "2026-03-01"}},
		{name: "bad due", body: CreateTaskRequest{Title: "x", ProjectID: "p", DueDate: "tomorrow"}, wantErr: true},
		{name: "negative estimate", body: CreateTaskRequest{Title: "x", ProjectID: "p", EstimatedHours: &hours}, wantErr: true},
		{name: "map body skipped", body: map[string]string{"a": "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.body)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
