package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	readWait  = 60 * time.Second
)

// Server exposes a Runner over HTTP: /ws for the control protocol and
// /healthz for liveness.
type Server struct {
	runner   *Runner
	upgrader websocket.Upgrader
}

// New creates a server for r. r.Run must be running for /ws to respond.
func New(r *Runner) *Server {
	return &Server{
		runner: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type health struct {
	Status     string `json:"status"`
	Tick       uint64 `json:"tick"`
	Population int    `json:"population"`
	Running    bool   `json:"running"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{
		Status:     "ok",
		Tick:       s.runner.Tick(),
		Population: s.runner.Population(),
		Running:    s.runner.Running(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := newClient()
	if !s.runner.attach(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer goroutine. Exits when the runner closes c.out.
	writeErr := make(chan error, 1)
	go func() {
		for b := range c.out {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				writeErr <- err
				cancel()
				// Drain so the runner never blocks on a dead client.
				for range c.out {
				}
				return
			}
		}
		writeErr <- nil
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		msg, err := Decode(data)
		if err != nil {
			c.send(errorFrame(err))
			continue
		}
		if err := s.runner.Submit(ctx, c, msg); err != nil {
			break
		}
	}

	s.runner.detach(c)
	if err := <-writeErr; err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		slog.Debug("websocket writer stopped", "error", err)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second))
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
