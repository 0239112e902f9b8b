// Package httpserver wraps the stdlib server with the timeouts and graceful
// shutdown the service runs with.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ShutdownTimeout controls how long in-flight requests get to finish during
// a graceful shutdown.
var ShutdownTimeout = 10 * time.Second

// Server wraps http.Server with the service's defaults.
type Server struct {
	inner *http.Server
}

// New constructs a server for the given port. Write and header-read
// timeouts are bounded so a stalled client cannot pin a connection; idle
// keep-alive connections are recycled after a minute.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       time.Minute,
		},
	}
}

// Start begins serving HTTP traffic and blocks until the listener closes.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight requests
// up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
