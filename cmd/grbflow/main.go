package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env so GRBFLOW_* defaults can come from the
	// environment; a missing file is fine.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("GRBFLOW_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
