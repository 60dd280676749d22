package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"sealpost/internal/relayserver"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("SEALPOST_RELAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	e := relayserver.New().Echo()
	slog.Info("relay listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		slog.Error("relay stopped", "error", err)
		os.Exit(1)
	}
}
