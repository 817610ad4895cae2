// Package live owns the server-sent event connection that pushes
// notifications from the collaboration backend.
package live

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/hy4ri/taskboard/internal/api"
)

// StreamPath is the notification stream endpoint, relative to the API base URL.
const StreamPath = "/notifications/stream"

// maxLineBytes bounds a single SSE line.
const maxLineBytes = 1 << 20

var (
	// ErrAlreadyOpen is returned when Open is called twice.
	ErrAlreadyOpen = errors.New("stream already open")

	// ErrClosed is reported by Err after Close.
	ErrClosed = errors.New("stream closed")
)

// Event is one dispatched server-sent event.
type Event struct {
	ID   string
	Type string
	Data []byte
}

// Decode unmarshals the event data as JSON.
func (e Event) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s event: %w", e.Type, err)
	}
	return nil
}

// Stream is a single owned SSE connection. Create one per session with
// NewStream, call Open once, drain Events, and Close when the session ends.
type Stream struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	opened  bool
	closing bool
	cancel  context.CancelFunc
	err     error
}

// NewStream prepares a stream against the API at baseURL. No connection is
// made until Open.
func NewStream(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *Stream {
	if httpClient == nil {
		// Streams are long-lived; the API client's timeout would cut them off.
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{
		url:        strings.TrimRight(baseURL, "/") + StreamPath,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
		events:     make(chan Event, 16),
		done:       make(chan struct{}),
	}
}

// Open connects and starts delivering events. It returns once the server
// has accepted the stream.
func (s *Stream) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.opened {
		s.mu.Unlock()
		return ErrAlreadyOpen
	}
	s.opened = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		err = fmt.Errorf("failed to create stream request: %w", err)
		s.finish(err)
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to connect to notification stream: %w", err)
		s.finish(err)
		return err
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		err := &api.APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		s.finish(err)
		return err
	}

	s.logger.Debug("notification stream connected", "url", s.url)

	go func() {
		defer resp.Body.Close()
		err := readEvents(resp.Body, func(ev Event) bool {
			select {
			case s.events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err == nil {
			err = io.EOF
		}
		s.finish(err)
	}()

	return nil
}

// Events returns the channel of dispatched events. It is closed when the
// stream ends for any reason; Err then reports why.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Done is closed when the stream has ended.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the stream, or nil while it is running.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the connection down. It is safe to call more than once and
// before Open.
func (s *Stream) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	opened := s.opened
	s.opened = true
	s.closing = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !opened {
		s.finish(ErrClosed)
	}
	<-s.done
	return nil
}

// finish records the terminal error once and releases readers.
func (s *Stream) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	if s.closing || err == nil {
		err = ErrClosed
	}
	s.err = err
	close(s.events)
	close(s.done)
	s.logger.Debug("notification stream ended", "error", err)
}

// readEvents parses an event stream and calls emit for every dispatched
// event. It stops early when emit returns false. An event still missing its
// blank line at EOF is discarded.
func readEvents(r io.Reader, emit func(Event) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var (
		id, typ string
		data    bytes.Buffer
		hasData bool
	)

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if hasData {
				ev := Event{ID: id, Type: typ, Data: append([]byte(nil), data.Bytes()...)}
				if ev.Type == "" {
					ev.Type = "message"
				}
				if !emit(ev) {
					return nil
				}
			}
			typ = ""
			data.Reset()
			hasData = false
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			typ = value
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "id":
			// The last event id persists across events.
			id = value
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read notification stream: %w", err)
	}
	return nil
}
