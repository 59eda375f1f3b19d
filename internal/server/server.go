// Package server serves a build directory for local development.
//
// Requests are mapped to files with extension-less routing: /about serves
// about.html or about/index.html. Unknown paths get the site's 404 page.
// Only UTF-8 text files are served.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/stencil/internal/logging"
)

// Server is the development HTTP server.
type Server struct {
	// Addr defaults to DevAddress.
	Addr string

	resolver      *Resolver
	logger        logging.Logger
	httpServer    *http.Server
	serverMutex   sync.RWMutex
	shutdownOnce  sync.Once
	isShutdown    bool
	shutdownMutex sync.RWMutex
}

// New creates a server answering from resolver.
func New(resolver *Resolver, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Server{
		Addr:     DevAddress,
		resolver: resolver,
		logger:   logger.WithComponent("server"),
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := s.resolver.Lookup(r.Method, r.URL.Path)

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(res.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(res.Body))
	}
}

// withLogging logs every request at debug level.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug(r.Context(), "Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start listens on Addr and blocks until the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	s.shutdownMutex.RLock()
	closed := s.isShutdown
	s.shutdownMutex.RUnlock()
	if closed {
		return nil
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.Addr,
		Handler:           s.withLogging(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Listening", "url", "http://"+s.Addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server. Only the first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.shutdownMutex.Lock()
		s.isShutdown = true
		s.shutdownMutex.Unlock()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
