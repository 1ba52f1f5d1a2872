// Package metrics exposes the monitor's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tankmon/internal/telemetry"
)

// Metrics holds the monitor's collectors on a private registry, so tests
// and restarts never fight over global registration.
type Metrics struct {
	registry *prometheus.Registry

	framesReceived prometheus.Counter
	framesRejected *prometheus.CounterVec
	wordsDecoded   prometheus.Counter
	alarmsTotal    *prometheus.CounterVec

	temperature     *prometheus.GaugeVec
	pressure        *prometheus.GaugeVec
	fluidLevel      *prometheus.GaugeVec
	humidityTripped *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tankmon_frames_received_total",
			Help: "Total telemetry frames received from the broker.",
		}),
		framesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tankmon_frames_rejected_total",
			Help: "Total frames rejected before decoding, by reason.",
		}, []string{"reason"}),
		wordsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tankmon_words_decoded_total",
			Help: "Total telemetry words decoded.",
		}),
		alarmsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tankmon_alarms_total",
			Help: "Total alarms raised, by rule.",
		}, []string{"rule"}),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tankmon_temperature_celsius",
			Help: "Fluid temperature from the latest decoded word.",
		}, []string{"tank"}),
		pressure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tankmon_pressure_hpa",
			Help: "Tank pressure from the latest decoded word.",
		}, []string{"tank"}),
		fluidLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tankmon_fluid_level_liters",
			Help: "Fluid level from the latest decoded word.",
		}, []string{"tank"}),
		humidityTripped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tankmon_humidity_sensors_tripped",
			Help: "Humidity sensors tripped in the latest decoded word.",
		}, []string{"tank"}),
	}

	m.registry.MustRegister(
		m.framesReceived,
		m.framesRejected,
		m.wordsDecoded,
		m.alarmsTotal,
		m.temperature,
		m.pressure,
		m.fluidLevel,
		m.humidityTripped,
	)

	return m
}

// Handler serves the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FrameReceived() {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
}

func (m *Metrics) FrameRejected(reason string) {
	if m == nil {
		return
	}
	m.framesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) WordDecoded() {
	if m == nil {
		return
	}
	m.wordsDecoded.Inc()
}

func (m *Metrics) AlarmRaised(rule telemetry.Rule) {
	if m == nil {
		return
	}
	m.alarmsTotal.WithLabelValues(string(rule)).Inc()
}

// ObserveReading publishes the latest decoded values for one tank.
func (m *Metrics) ObserveReading(tankID string, r telemetry.Reading) {
	if m == nil {
		return
	}
	m.temperature.WithLabelValues(tankID).Set(float64(r.Temperature))
	m.pressure.WithLabelValues(tankID).Set(float64(r.Pressure))
	m.fluidLevel.WithLabelValues(tankID).Set(float64(r.FluidLevel))
	m.humidityTripped.WithLabelValues(tankID).Set(float64(r.TrippedHumiditySensors()))
}
