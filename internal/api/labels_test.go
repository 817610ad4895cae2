package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestGetLabels(t *testing.T) {
	tests := []struct {
		name       string
		response   []Label
		statusCode int
		wantErr    bool
	}{
		{
			name: "successful request",
			response: []Label{
				{ID: "1", Name: "frontend", Color: "#ff0000"},
				{ID: "2", Name: "bug", Color: "#00ff00"},
			},
			statusCode: http.StatusOK,
		},
		{
			name:       "empty labels",
			response:   []Label{},
			statusCode: http.StatusOK,
		},
		{
			name:       "forbidden",
			statusCode: http.StatusForbidden,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("workspaceId") != "ws-1" {
					t.Errorf("expected workspaceId ws-1, got %q", r.URL.Query().Get("workspaceId"))
				}
				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(tt.response)
			})
			defer server.Close()

			client := NewClient("test-token", WithBaseURL(server.URL))

			labels, err := client.GetLabels("ws-1")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if apiErr, ok := IsAPIError(err); !ok || !apiErr.IsForbidden() {
					t.Errorf("expected forbidden APIError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(labels) != len(tt.response) {
				t.Errorf("expected %d labels, got %d", len(tt.response), len(labels))
			}
		})
	}
}

func TestCreateLabel(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}

		var req CreateLabelRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Name != "urgent" {
			t.Errorf("expected name urgent, got %s", req.Name)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Label{ID: "new-label", Name: req.Name, Color: req.Color})
	})
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))

	label, err := client.CreateLabel(CreateLabelRequest{Name: "urgent", Color: "#ff0000", WorkspaceID: "ws-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label.Name != "urgent" {
		t.Errorf("expected name urgent, got %s", label.Name)
	}
}

func TestDeleteLabel(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE request, got %s", r.Method)
		}
		if r.URL.Path != "/labels/label-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))
	if err := client.DeleteLabel("label-123"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
