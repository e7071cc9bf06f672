package server

import (
	"encoding/json"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/zeusync/vecview/internal/assets"
	"github.com/zeusync/vecview/internal/core/observability/log"
)

// Handler routes assets, health and websocket sessions. HTTP/2 is
// accepted in cleartext so that asset fetches multiplex over one
// connection.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /assets/{name...}", s.assets.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	var h http.Handler = mux
	if s.config.Assets.Isolated {
		h = assets.CrossOriginIsolation(h)
	}
	return h2c.NewHandler(h, &http2.Server{})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Stats()); err != nil {
		s.logger.Error("Failed to encode health", log.Error(err))
	}
}
