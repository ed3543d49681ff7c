// Package net exposes the overlay to other devices on the local network: an
// HTTP and WebSocket remote control, advertised over mDNS.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"Glowpoint/internal/command"
	"Glowpoint/internal/engine"
)

// Poster accepts commands for the event loop. *command.Queue implements it.
type Poster interface {
	Post(cmd command.Command) bool
}

// Request is the body of POST /api/commands and of WebSocket messages.
// Either the structured fields or the short form under "command" is used.
type Request struct {
	command.Command
	Line string `json:"command,omitempty"`
}

func (r Request) resolve() (command.Command, error) {
	if r.Line != "" {
		return command.Parse(r.Line)
	}
	return r.Command, r.Command.Validate()
}

// Reply answers a command.
type Reply struct {
	OK      bool   `json:"ok"`
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server is the remote-control endpoint.
type Server struct {
	queue    Poster
	status   func() engine.Status
	peers    *PeerManager
	upgrader websocket.Upgrader
	router   chi.Router
}

// NewServer routes requests to queue and reads status for GET /api/status.
func NewServer(queue Poster, status func() engine.Status) *Server {
	s := &Server{
		queue:  queue,
		status: status,
		peers:  NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameHostOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/status", s.getStatus)
		r.Post("/commands", s.postCommand)
	})
	r.Get("/ws", s.serveWS)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Peers is the WebSocket client registry.
func (s *Server) Peers() *PeerManager { return s.peers }

// Notify pushes the current status to every WebSocket client.
func (s *Server) Notify() {
	s.peers.Broadcast(s.status())
}

// ListenAndServe serves on addr until ctx is cancelled. The bound port is
// passed to ready, if set, once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(port int)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	log.Printf("[remote] listening on %s", ln.Addr())
	if ready != nil {
		ready(port)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Reply{Error: "invalid JSON: " + err.Error()})
		return
	}
	reply, code := s.submit(req)
	writeJSON(w, code, reply)
}

// submit validates and queues one request.
func (s *Server) submit(req Request) (Reply, int) {
	cmd, err := req.resolve()
	if err != nil {
		return Reply{Error: err.Error()}, http.StatusBadRequest
	}
	if !s.queue.Post(cmd) {
		return Reply{Command: cmd.String(), Error: "queue full"}, http.StatusServiceUnavailable
	}
	return Reply{OK: true, Command: cmd.String()}, http.StatusAccepted
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[remote] upgrade: %v", err)
		return
	}
	peer := &Peer{Conn: conn}
	s.peers.Add(peer)
	defer func() {
		s.peers.Remove(peer)
		conn.Close()
	}()

	if err := peer.WriteJSON(s.status()); err != nil {
		return
	}
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[remote] read from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		reply, _ := s.submit(req)
		if err := peer.WriteJSON(reply); err != nil {
			return
		}
	}
}

// sameHostOrigin accepts clients without an Origin header (scripts, native
// apps) and browsers on the same host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[remote] encode response: %v", err)
	}
}
