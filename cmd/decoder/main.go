package main

import (
	"fmt"
	"log/slog"
	"os"

	"tankmon/internal/config"
	"tankmon/internal/console"
	"tankmon/internal/logging"
)

var version = "dev"
var appName = "tankmon-decoder"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; the session owns stdout for prompts and reports.
	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	session := console.NewSession(os.Stdin, os.Stdout)
	if err := session.Run(); err != nil {
		slog.Error("session failed", "err", err)
		os.Exit(1)
	}
}
