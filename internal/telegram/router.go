package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/bot"
)

// Router wires Telegram updates to the conversation router and performs the
// resulting actions through the Bot API.
type Router struct {
	api  *tgbotapi.BotAPI
	log  *zap.Logger
	conv *bot.Router
}

// NewRouter creates a new Telegram router.
func NewRouter(api *tgbotapi.BotAPI, log *zap.Logger, conv *bot.Router) *Router {
	return &Router{api: api, log: log, conv: conv}
}

// inbound is an update translated for the conversation layer.
type inbound struct {
	userID int64
	chatID int64
	event  bot.Event
}

// toEvent converts an update; ok is false for updates the bot ignores.
func toEvent(upd tgbotapi.Update) (in inbound, ok bool) {
	if msg := upd.Message; msg != nil {
		if msg.Chat == nil {
			return inbound{}, false
		}
		in.chatID = msg.Chat.ID
		in.userID = msg.Chat.ID
		if msg.From != nil {
			in.userID = msg.From.ID
		}

		switch {
		case msg.Location != nil:
			in.event = bot.LocationShare{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
		case msg.IsCommand():
			in.event = bot.Command{Name: strings.ToLower(msg.Command())}
		case msg.Text != "":
			in.event = bot.Text{Value: msg.Text}
		default:
			return inbound{}, false
		}
		return in, true
	}

	if cb := upd.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
			return inbound{}, false
		}
		return inbound{
			userID: cb.From.ID,
			chatID: cb.Message.Chat.ID,
			event:  bot.ButtonPress{Data: cb.Data, QueryID: cb.ID, MessageID: cb.Message.MessageID},
		}, true
	}
	return inbound{}, false
}

// HandleUpdate routes a single update.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	in, ok := toEvent(upd)
	if !ok {
		return
	}
	if r.conv.WillFetch(in.userID, in.event) {
		if _, err := r.api.Request(tgbotapi.NewChatAction(in.chatID, tgbotapi.ChatTyping)); err != nil {
			r.log.Debug("typing action failed", zap.Int64("chatID", in.chatID), zap.Error(err))
		}
	}
	for _, a := range r.conv.Handle(ctx, in.userID, in.event) {
		r.perform(in.chatID, a)
	}
}

// SendMessage sends an HTML message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := r.api.Send(msg)
	return err
}
