// Package api serves the question-answering HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// Default configuration values.
const (
	DefaultAddr            = "0.0.0.0:8000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 20
)

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("api: answer service is required")

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("api: index service is required")

// Ports aggregates the driving ports the API calls.
type Ports struct {
	Answer driving.AnswerService
	Index  driving.IndexService
}

// Config holds configuration for the API server.
type Config struct {
	// Addr is the listen address (default: 0.0.0.0:8000).
	Addr string

	// ReadTimeout bounds reading a request (default: 30s).
	// Writes are not bounded since generation can take minutes.
	ReadTimeout time.Duration
}

// Server is the HTTP API server.
type Server struct {
	mu       sync.Mutex
	ports    Ports
	cfg      Config
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a new API server.
func NewServer(ports Ports, cfg Config) (*Server, error) {
	if ports.Answer == nil {
		return nil, ErrMissingAnswerService
	}
	if ports.Index == nil {
		return nil, ErrMissingIndexService
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	return &Server{
		ports:   ports,
		cfg:     cfg,
		errChan: make(chan error, 1),
	}, nil
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /rebuild", s.handleRebuild)
	return enableCORS(mux)
}

// Start binds the listen address and serves in the background.
// Serve errors are reported on Err.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Info("API listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Err reports a serve failure after Start.
func (s *Server) Err() <-chan error {
	return s.errChan
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// enableCORS allows any origin, method and header.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		if h := r.Header.Get("Access-Control-Request-Headers"); h != "" {
			w.Header().Set("Access-Control-Allow-Headers", h)
		} else {
			w.Header().Set("Access-Control-Allow-Headers", "*")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
