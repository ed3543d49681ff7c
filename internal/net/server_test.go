package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"Glowpoint/internal/command"
	"Glowpoint/internal/engine"
)

type recordingQueue struct {
	mu   sync.Mutex
	cmds []command.Command
	full bool
}

func (q *recordingQueue) Post(cmd command.Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.cmds = append(q.cmds, cmd)
	return true
}

func (q *recordingQueue) posted() []command.Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]command.Command(nil), q.cmds...)
}

func newTestServer() (*Server, *recordingQueue) {
	q := &recordingQueue{}
	s := NewServer(q, func() engine.Status {
		return engine.Status{Mode: "drawing", Tool: "arrow", Width: 6, Shapes: 3}
	})
	return s, q
}

func TestServer_Status(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code %d", rec.Code)
	}
	var st engine.Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Mode != "drawing" || st.Tool != "arrow" || st.Shapes != 3 {
		t.Errorf("status %+v", st)
	}
}

func TestServer_PostCommand(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want command.Command
	}{
		{"structured", `{"action":"select_tool","tool":"circle"}`, http.StatusAccepted, command.Command{Action: command.SelectTool, Tool: "circle"}},
		{"short form", `{"command":"draw_red"}`, http.StatusAccepted, command.Command{Action: command.ToggleDrawing, Color: "red"}},
		{"unknown action", `{"action":"explode"}`, http.StatusBadRequest, command.Command{}},
		{"missing colour", `{"action":"start_drawing"}`, http.StatusBadRequest, command.Command{}},
		{"bad json", `{"action":`, http.StatusBadRequest, command.Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, q := newTestServer()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/commands", strings.NewReader(tt.body))
			s.ServeHTTP(rec, req)
			if rec.Code != tt.code {
				t.Fatalf("code %d, want %d: %s", rec.Code, tt.code, rec.Body)
			}
			var reply Reply
			if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
				t.Fatal(err)
			}
			posted := q.posted()
			if tt.code != http.StatusAccepted {
				if reply.OK || reply.Error == "" || len(posted) != 0 {
					t.Errorf("reply %+v posted %v", reply, posted)
				}
				return
			}
			if !reply.OK || len(posted) != 1 || posted[0] != tt.want {
				t.Errorf("reply %+v posted %v, want %v", reply, posted, tt.want)
			}
		})
	}
}

func TestServer_QueueFull(t *testing.T) {
	s, q := newTestServer()
	q.full = true
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/commands", strings.NewReader(`{"command":"undo"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code %d, want 503", rec.Code)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/commands", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("code %d, want 405", rec.Code)
	}
}

func TestServer_WebSocket(t *testing.T) {
	s, q := newTestServer()
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello engine.Status
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read greeting: %v", err)
	}
	if hello.Tool != "arrow" {
		t.Errorf("greeting %+v", hello)
	}
	if n := s.Peers().Len(); n != 1 {
		t.Errorf("peers %d, want 1", n)
	}

	if err := conn.WriteJSON(Request{Line: "undo"}); err != nil {
		t.Fatal(err)
	}
	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if !reply.OK || reply.Command != "undo" {
		t.Errorf("reply %+v", reply)
	}

	if err := conn.WriteJSON(Request{Line: "select_tool"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.OK {
		t.Errorf("select_tool without a tool accepted: %+v", reply)
	}

	s.Notify()
	var pushed engine.Status
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("read notify: %v", err)
	}
	if pushed.Width != 6 {
		t.Errorf("pushed %+v", pushed)
	}

	if got := q.posted(); len(got) != 1 || got[0].Action != command.Undo {
		t.Errorf("posted %v", got)
	}
}

func TestServer_RejectsForeignOrigin(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, resp, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Error("foreign origin accepted")
	} else if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("status %d, want 403", resp.StatusCode)
	}
}

func TestRemoteURL(t *testing.T) {
	tests := []struct {
		addr string
		port int
		want string
	}{
		{"127.0.0.1:8765", 8765, "http://127.0.0.1:8765"},
		{"192.168.1.20:9000", 9000, "http://192.168.1.20:9000"},
		{"[::1]:8765", 8765, "http://[::1]:8765"},
	}
	for _, tt := range tests {
		if got := RemoteURL(tt.addr, tt.port); got != tt.want {
			t.Errorf("RemoteURL(%q, %d) = %q, want %q", tt.addr, tt.port, got, tt.want)
		}
	}
}
