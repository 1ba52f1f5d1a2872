package httpapi

import (
	"log/slog"
	"net/http"
)

// ConnectionChecker reports whether the frame source still has its broker
// connection.
type ConnectionChecker interface {
	IsConnected() bool
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	source ConnectionChecker
}

func NewHealthchecker(source ConnectionChecker) healthchecker {
	return &healthcheckerImpl{source: source}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !h.source.IsConnected() {
		slog.Warn("healthcheck failed: frame source disconnected")
		writeError(w, http.StatusServiceUnavailable, "broker connection is down")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, source ConnectionChecker) {
	healthchecker := NewHealthchecker(source)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
