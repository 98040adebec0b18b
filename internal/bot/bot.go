package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/astrokit/internal/app"
	"github.com/Alias1177/astrokit/internal/history"
	"github.com/Alias1177/astrokit/models"
)

const missionCallbackPrefix = "mission_"

// Sender is the part of the Telegram API the handlers use
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers chat commands with the shared scoring app
type Bot struct {
	api    Sender
	app    *app.App
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	missions map[int64]models.MissionModel // selected mission per user
}

// New creates a bot over api
func New(api Sender, a *app.App) *Bot {
	return &Bot{
		api:      api,
		app:      a,
		now:      time.Now,
		logger:   log.With().Str("component", "telegram_bot").Logger(),
		missions: make(map[int64]models.MissionModel),
	}
}

// Connect authorizes against the Telegram API
func Connect(token, endpoint string, debug bool) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("telegram token not set")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}
	api.Debug = debug
	return api, nil
}

// Run long-polls updates from api until ctx is cancelled
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) error {
	b.logger.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := chatID
	if message.From != nil {
		userID = message.From.ID
	}

	if !message.IsCommand() {
		b.reply(chatID, "Send /help for the list of commands.")
		return
	}

	args := message.CommandArguments()
	switch message.Command() {
	case "start", "help":
		msg := tgbotapi.NewMessage(chatID, helpText)
		msg.ReplyMarkup = missionKeyboard()
		b.send(msg)
	case "models":
		b.reply(chatID, formatCatalog())
	case "predict":
		b.handlePredict(ctx, chatID, userID, args)
	case "history":
		records, err := b.view(ctx, args)
		if err != nil {
			b.reply(chatID, err.Error())
			return
		}
		b.reply(chatID, formatHistory(records))
	case "clear":
		b.app.Store.Clear(ctx)
		b.reply(chatID, "History cleared.")
	case "export":
		b.handleExport(ctx, chatID, args)
	default:
		b.reply(chatID, "Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handlePredict(ctx context.Context, chatID, userID int64, args string) {
	in, mission, err := ParsePredictArgs(args, models.DefaultInput(), b.mission(userID))
	if err != nil {
		b.reply(chatID, "Could not read parameters: "+err.Error())
		return
	}

	rec, source, err := b.app.Predict(ctx, in, mission)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	b.logger.Info().Int64("user_id", userID).Str("mission", string(mission)).Str("status", string(rec.Result.Status)).Msg("Prediction served")
	b.reply(chatID, formatResult(rec, source))
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, args string) {
	format, err := history.ParseFormat(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	records := b.app.Store.List(ctx)
	if len(records) == 0 {
		b.reply(chatID, "Nothing to export yet.")
		return
	}

	var buf bytes.Buffer
	if err := history.Write(&buf, format, records); err != nil {
		b.logger.Error().Err(err).Msg("Export failed")
		b.reply(chatID, "Export failed, try again later.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  history.ExportFilename(format, b.now()),
		Bytes: buf.Bytes(),
	})
	b.send(doc)
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	// Acknowledge the callback query
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to acknowledge callback")
	}
	if callback.Message == nil || !strings.HasPrefix(callback.Data, missionCallbackPrefix) {
		return
	}

	mission, err := models.ParseMission(strings.TrimPrefix(callback.Data, missionCallbackPrefix))
	if err != nil {
		return
	}
	b.mu.Lock()
	b.missions[callback.From.ID] = mission
	b.mu.Unlock()

	b.reply(callback.Message.Chat.ID, fmt.Sprintf("Selected model: %s\nNow send /predict with your parameters.", mission))
}

// view parses "[status] [sort]" and returns the matching history
func (b *Bot) view(ctx context.Context, args string) ([]models.PredictionRecord, error) {
	fields := strings.Fields(args)
	filter, order := history.FilterAll, history.SortNewest
	var err error
	if len(fields) > 0 {
		if filter, err = history.ParseStatusFilter(fields[0]); err != nil {
			return nil, err
		}
	}
	if len(fields) > 1 {
		if order, err = history.ParseSortOrder(fields[1]); err != nil {
			return nil, err
		}
	}
	return history.View(b.app.Store.List(ctx), filter, order), nil
}

func (b *Bot) mission(userID int64) models.MissionModel {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.missions[userID]; ok {
		return m
	}
	return models.MissionTESS
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send message")
	}
}

// missionKeyboard offers one button per mission
func missionKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range models.Missions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(m), missionCallbackPrefix+string(m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
