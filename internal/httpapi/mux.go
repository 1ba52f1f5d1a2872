// Package httpapi is the monitor's HTTP surface: health, metrics and an
// on-demand word decoder for operators.
package httpapi

import (
	"net/http"

	"tankmon/internal/metrics"
)

func NewMux(source ConnectionChecker, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, source)
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /v1/decode/{word}", handleDecode)
	return mux
}
