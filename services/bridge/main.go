// bridge terminates the webview channel for the Ansible generation UI.
// It routes generate requests to the configured LLM provider (Gemini or
// the vendor code assistant), posts results or classified errors back,
// and fans generation telemetry out over RabbitMQ.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lightspeed-ai/lightspeed/services/bridge/internal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	_ = godotenv.Load()

	cfg := internal.ConfigFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info().Msg("shutdown signal — stopping bridge")
		cancel()
	}()

	app, err := internal.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start bridge")
	}
	defer app.Close()

	log.Info().
		Str("provider", cfg.Provider).
		Str("api_port", cfg.APIPort).
		Msg("bridge online")

	if err := app.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("bridge exited")
	}
}
