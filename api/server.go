// Package api holds the HTTP surface of the storefront core.
package api

import (
	"net/http"
	"time"

	"github.com/angelmondragon/sonumarket-core/pkg/config"
)

// NewServer returns the HTTP server that cmd/api runs. Writes get a generous timeout
// because wizard submissions may be awaited inline.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
