// Package httpserver builds the API listener.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// New returns a server for handler on addr. Request bodies on this API are
// small, so reads are bounded tightly; net/http's own errors (TLS
// handshakes, malformed requests) go to logger at warn level.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       90 * time.Second,
		MaxHeaderBytes:    32 << 10,
	}
	if logger != nil {
		srv.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)
	}
	return srv
}
