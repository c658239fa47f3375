package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"go-progression/config"
	"go-progression/debug"
	"go-progression/sequencer"
)

// Source provides the most recent generator snapshot
type Source interface {
	Latest() sequencer.Snapshot
}

// NewRouter builds the read-only state API
func NewRouter(src Source, cfg *config.Config) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, src.Latest())
	}).Methods("GET")
	router.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg)
	}).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	}).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Error("http", err, "encode response")
	}
}

// Server serves the state API in the background
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Start listens on addr (":0" picks a free port) and serves until Shutdown
func Start(addr string, src Source, cfg *config.Config) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		srv: &http.Server{
			Handler:           NewRouter(src, cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln: ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debug.Error("http", err, "serve %s", ln.Addr())
		}
	}()
	debug.Log("http", "serving state on %s", ln.Addr())
	return s, nil
}

// Addr is the address actually listened on
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
