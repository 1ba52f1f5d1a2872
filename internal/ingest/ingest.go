// Package ingest turns raw broker frames into decoded readings, alarm log
// lines and metrics.
package ingest

import (
	"fmt"
	"log/slog"

	"tankmon/internal/frame"
	"tankmon/internal/metrics"
	"tankmon/internal/telemetry"
)

// Handler processes frames from the broker. Every frame is handled in
// isolation: token, word, reading and alarms live for one call only, so the
// decode core stays free of shared state.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, metrics: m}
}

// HandleFrame classifies, decodes and evaluates one frame. A malformed
// frame is counted and logged, never fatal. The console termination
// sentinel has no meaning on the wire (a broker peer must not be able to
// stop the monitor), so it is rejected like any other unusable frame.
func (h *Handler) HandleFrame(tankID string, payload []byte) {
	h.metrics.FrameReceived()

	token, cls := frame.Classify(string(payload))
	if cls != frame.Valid {
		h.metrics.FrameRejected(cls.String())
		h.logger.Warn("rejected frame",
			"tank_id", tankID,
			"reason", cls.String(),
			"token", token,
		)
		return
	}

	word := frame.ParseWord(token)
	reading := telemetry.Decode(word)
	h.metrics.WordDecoded()
	h.metrics.ObserveReading(tankID, reading)

	h.logger.Info("decoded telemetry word",
		"tank_id", tankID,
		"word", "0x"+word.Hex(),
		"temperature_c", reading.Temperature,
		"pressure_hpa", reading.Pressure,
		"humidity_bits", fmt.Sprintf("%04b", reading.Humidity),
		"fluid_level_l", reading.FluidLevel,
	)

	for _, alarm := range telemetry.Evaluate(reading) {
		h.metrics.AlarmRaised(alarm.Rule)
		h.logger.Warn("alarm raised",
			"tank_id", tankID,
			"rule", string(alarm.Rule),
			"message", alarm.Message,
		)
	}
}
