// Package server wraps http.Server with the listener security layer
// and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

var _ model.Server = (*Server)(nil)

// Server serves the HTTP API over a listener produced by the security
// layer.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server for the given handler.
func New(addr string, h http.Handler, logger *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: h,
		},
		logger: logger,
	}
}

// Start listens via the security layer and serves. It blocks until the
// server stops; a shutdown-triggered exit returns nil.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("HTTP server: listening",
		"address", listener.Addr().String())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down, letting in-flight requests
// finish until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Address returns the bound address, or the configured one before
// Start.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
