package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"tankmon/internal/config"
	"tankmon/internal/frame"
	"tankmon/internal/logging"
	"tankmon/internal/mqtt"
	"tankmon/internal/simulate"
)

var version = "dev"
var appName = "tankmon-simulator"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment so one-off runs need no env juggling.
	pflag.StringVar(&cfg.MQTTBroker, "broker", cfg.MQTTBroker, "MQTT broker host")
	pflag.IntVar(&cfg.MQTTPort, "port", cfg.MQTTPort, "MQTT broker port")
	pflag.StringVar(&cfg.TankID, "tank", cfg.TankID, "tank id to publish frames for")
	pflag.DurationVar(&cfg.PublishInterval, "interval", cfg.PublishInterval, "delay between frames")
	count := pflag.Int("count", 0, "number of frames to publish (0 = until interrupted)")
	word := pflag.String("word", "", "publish this one hexadecimal word and exit")
	seed := pflag.Int64("seed", 0, "random seed (0 = derive from clock)")
	pflag.Parse()

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *count, *word, *seed); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}

func run(ctx context.Context, cfg config.Config, count int, word string, seed int64) error {
	publisher, err := mqtt.NewPublisher(cfg, slog.Default())
	if err != nil {
		return err
	}
	if err := publisher.ConnectWithBackoff(ctx); err != nil {
		return err
	}
	defer publisher.Disconnect()

	if word != "" {
		token, cls := frame.Classify(word)
		if cls != frame.Valid {
			return fmt.Errorf("invalid word %q (use 1-8 hexadecimal digits)", word)
		}
		return publisher.PublishFrame(cfg.TankID, token)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := simulate.NewGenerator(seed)

	slog.Info("publishing frames",
		"tank_id", cfg.TankID,
		"interval", cfg.PublishInterval,
		"seed", seed,
	)

	ticker := time.NewTicker(cfg.PublishInterval)
	defer ticker.Stop()

	published := 0
	for {
		w := gen.Next()
		if err := publisher.PublishFrame(cfg.TankID, w.Hex()); err != nil {
			slog.Warn("publish failed", "error", err)
		} else {
			slog.Info("published frame", "word", "0x"+w.Hex())
			published++
		}
		if count > 0 && published >= count {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
