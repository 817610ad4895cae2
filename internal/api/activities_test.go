package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestGetActivities(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit string
	}{
		{"with limit", 50, "50"},
		{"server default", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/activities" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("workspaceId"); got != "ws-1" {
					t.Errorf("expected workspaceId ws-1, got %q", got)
				}
				if got := r.URL.Query().Get("limit"); got != tt.wantLimit {
					t.Errorf("expected limit %q, got %q", tt.wantLimit, got)
				}
				json.NewEncoder(w).Encode([]Activity{{ID: "a-1", Action: "created", EntityType: "task"}})
			})
			defer server.Close()

			client := NewClient("test-token", WithBaseURL(server.URL))
			activities, err := client.GetActivities("ws-1", tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(activities) != 1 || activities[0].Action != "created" {
				t.Errorf("unexpected activities: %+v", activities)
			}
		})
	}
}
