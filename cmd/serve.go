package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/astrokit/internal/bot"
	"github.com/Alias1177/astrokit/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, and the Telegram bot when a token is configured",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		// Connect before anything starts so a bad token never leaves the server running.
		var api *tgbotapi.BotAPI
		if cfg.Telegram.Token != "" {
			api, err = bot.Connect(cfg.Telegram.Token, cfg.Telegram.Endpoint, cfg.Telegram.Debug)
			if err != nil {
				return err
			}
		} else {
			log.Info().Msg("Telegram token not set, bot disabled")
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.New(a, cfg.Server).Run(gctx)
		})
		if api != nil {
			g.Go(func() error {
				return bot.New(api, a).Run(gctx, api)
			})
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override server.port")
	rootCmd.AddCommand(serveCmd)
}
