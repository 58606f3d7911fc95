// Package main is the entry point for Wildmere.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mkessler/wildmere/internal/game"
	"github.com/mkessler/wildmere/internal/telemetry"
	"github.com/mkessler/wildmere/internal/ui"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_WILDMERE_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
		// Continue without telemetry - game still works
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	cfg, err := game.LoadConfig(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	session, err := game.NewSession(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	app, err := ui.NewApp(session)
	if err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// configPath returns the config file location: the first CLI argument
// if given, otherwise wildmere.yaml next to the binary.
func configPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "wildmere.yaml"
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Construct the headers from our API key rather than trusting an
	// unexpanded variable reference in the .env file
	apiKey := os.Getenv("HONEYCOMB_WILDMERE_API_KEY")
	dataset := os.Getenv("HONEYCOMB_WILDMERE_DATASET")
	if dataset == "" {
		dataset = "wildmere" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
