package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/astrokit/internal/app"
	"github.com/Alias1177/astrokit/internal/bot"
	"github.com/Alias1177/astrokit/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("ASTROKIT_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	config.SetupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := bot.Connect(cfg.Telegram.Token, cfg.Telegram.Endpoint, cfg.Telegram.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize app")
	}
	defer a.Close()

	if err := bot.New(api, a).Run(ctx, api); err != nil {
		log.Error().Err(err).Msg("Bot stopped with error")
	}
}
