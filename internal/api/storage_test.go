package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestStorage(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/storage/ws-1/files":
			json.NewEncoder(w).Encode([]File{{ID: "f-1", Name: "roadmap.pdf", Size: 2048}})
		case r.Method == http.MethodGet && r.URL.Path == "/storage/ws-1/usage":
			json.NewEncoder(w).Encode(StorageUsage{UsedBytes: 2048, LimitBytes: 1 << 20, FileCount: 1})
		case r.Method == http.MethodDelete && r.URL.Path == "/storage/ws-1/files/f-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "not found"})
		}
	})
	defer server.Close()

	client := NewClient("test-token", WithBaseURL(server.URL))

	files, err := client.GetFiles("ws-1")
	if err != nil {
		t.Fatalf("GetFiles: unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Size != 2048 {
		t.Errorf("unexpected files: %+v", files)
	}

	usage, err := client.GetStorageUsage("ws-1")
	if err != nil {
		t.Fatalf("GetStorageUsage: unexpected error: %v", err)
	}
	if usage.FileCount != 1 || usage.LimitBytes != 1<<20 {
		t.Errorf("unexpected usage: %+v", usage)
	}

	if err := client.DeleteFile("ws-1", "f-1"); err != nil {
		t.Errorf("DeleteFile: unexpected error: %v", err)
	}

	_, err = client.GetFiles("ws-missing")
	if apiErr, ok := IsAPIError(err); !ok || !apiErr.IsNotFound() {
		t.Errorf("expected not-found API error, got %v", err)
	}
}
