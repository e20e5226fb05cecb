package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Per-request deadlines come from the timeout
// middleware, so only the header read gets a hard limit here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
