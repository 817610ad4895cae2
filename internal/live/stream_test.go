package live

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

func TestReadEvents(t *testing.T) {
	input := strings.Join([]string{
		": keep-alive",
		"event: notification",
		"id: 1",
		`data: {"id":"n-1",`,
		`data: "title":"Assigned"}`,
		"",
		"data: plain",
		"",
		"",
		"event: ignored-without-data",
		"",
		"id: 7",
		"data:no-space",
		"",
		"",
	}, "\n")

	var got []Event
	err := readEvents(strings.NewReader(input), func(ev Event) bool {
		got = append(got, ev)
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Event{
		{ID: "1", Type: "notification", Data: []byte("{\"id\":\"n-1\",\n\"title\":\"Assigned\"}")},
		{ID: "1", Type: "message", Data: []byte("plain")},
		{ID: "7", Type: "message", Data: []byte("no-space")},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Type != want[i].Type || string(got[i].Data) != string(want[i].Data) {
			t.Errorf("event %d = %+v (%q), want %+v (%q)", i, got[i], got[i].Data, want[i], want[i].Data)
		}
	}
}

func TestReadEvents_UnterminatedAtEOF(t *testing.T) {
	input := "data: complete\n\nevent: notification\ndata: cut off\n"

	var got []string
	err := readEvents(strings.NewReader(input), func(ev Event) bool {
		got = append(got, string(ev.Data))
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "complete" {
		t.Errorf("expected only the terminated event, got %q", got)
	}
}

func TestReadEvents_StopEarly(t *testing.T) {
	input := "data: a\n\ndata: b\n\n"
	count := 0
	readEvents(strings.NewReader(input), func(Event) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("expected emit to stop after first event, got %d", count)
	}
}

func TestEventDecode(t *testing.T) {
	ev := Event{Type: "notification", Data: []byte(`{"id":"n-1","title":"Hi","isRead":false}`)}
	var n api.Notification
	if err := ev.Decode(&n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID != "n-1" || n.Title != "Hi" {
		t.Errorf("unexpected notification %+v", n)
	}

	if err := (Event{Type: "x", Data: []byte("{")}).Decode(&n); err == nil {
		t.Error("expected decode error")
	}
}

func sseServer(t *testing.T, events int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != StreamPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; i < events; i++ {
			fmt.Fprintf(w, "event: notification\nid: %d\ndata: {\"id\":\"n-%d\"}\n\n", i, i)
			flusher.Flush()
		}
		// Hold the connection until the client goes away.
		<-r.Context().Done()
	}))
}

func TestStream_Lifecycle(t *testing.T) {
	srv := sseServer(t, 3)
	defer srv.Close()

	s := NewStream(srv.URL, "tok", nil, nil)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Open(context.Background()); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("expected ErrAlreadyOpen, got %v", err)
	}

	for i := 0; i < 3; i++ {
		select {
		case ev := <-s.Events():
			if ev.ID != fmt.Sprint(i) || ev.Type != "notification" {
				t.Errorf("unexpected event %+v", ev)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}

	if s.Err() != nil {
		t.Errorf("expected nil error while running, got %v", s.Err())
	}

	s.Close()
	s.Close()

	if _, ok := <-s.Events(); ok {
		t.Error("expected events channel to be closed")
	}
	if !errors.Is(s.Err(), ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", s.Err())
	}
}

func TestStream_ServerEnds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: bye\n\n")
	}))
	defer srv.Close()

	s := NewStream(srv.URL, "tok", nil, nil)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []Event
	for ev := range s.Events() {
		got = append(got, ev)
	}
	if len(got) != 1 || string(got[0].Data) != "bye" {
		t.Errorf("unexpected events %+v", got)
	}
	if s.Err() == nil {
		t.Error("expected a terminal error after the server hung up")
	}
	s.Close()
}

func TestStream_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "expired")
	}))
	defer srv.Close()

	s := NewStream(srv.URL, "tok", nil, nil)
	err := s.Open(context.Background())

	apiErr, ok := api.IsAPIError(err)
	if !ok || !apiErr.IsUnauthorized() {
		t.Fatalf("expected unauthorized APIError, got %v", err)
	}

	select {
	case <-s.Done():
	default:
		t.Error("expected stream to be done after a failed open")
	}
	s.Close()
}

func TestStream_CloseBeforeOpen(t *testing.T) {
	s := NewStream("http://127.0.0.1:1", "tok", nil, nil)
	s.Close()

	if !errors.Is(s.Err(), ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", s.Err())
	}
	if err := s.Open(context.Background()); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("expected Open after Close to fail, got %v", err)
	}
}
