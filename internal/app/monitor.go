// Package app wires config, broker subscription, ingest and the HTTP
// surface into the long-running monitor process.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tankmon/internal/config"
	"tankmon/internal/httpapi"
	"tankmon/internal/ingest"
	"tankmon/internal/metrics"
	"tankmon/internal/mqtt"
)

// RunMonitor blocks until ctx is cancelled or the HTTP server fails. A
// broker outage is not fatal: the monitor starts degraded and /healthz
// reports the missing frame source.
func RunMonitor(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"frameTopic", cfg.FrameTopic,
	)

	m := metrics.New()
	frames := ingest.NewHandler(slog.Default(), m)

	subscriber, err := mqtt.NewSubscriber(cfg, slog.Default())
	if err != nil {
		return err
	}
	// Set the frame handler before Connect so OnConnectHandler can subscribe
	// immediately. The broker may send queued frames right after CONNACK; we
	// must be handling them from the first message.
	subscriber.SetFrameHandler(frames.HandleFrame)

	mux := httpapi.NewMux(subscriber, m)

	// Use a short timeout for initial MQTT connect so we don't block startup when broker is down (e.g. E2E).
	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	err = subscriber.Connect(connectCtx)
	connectCancel()
	if err != nil {
		slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		// Continue so HTTP server and /healthz still work when MQTT is unavailable (e.g. E2E).
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("mqtt disconnecting")
	subscriber.Disconnect()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
