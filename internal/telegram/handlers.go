package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/bot"
)

// perform executes one action. Delivery failures are logged and never stop
// the remaining actions.
func (r *Router) perform(chatID int64, a bot.Action) {
	var err error
	switch a.Kind {
	case bot.ActSend:
		_, err = r.api.Send(buildMessage(chatID, a))
	case bot.ActEdit:
		_, err = r.api.Send(buildEdit(chatID, a))
	case bot.ActDelete:
		// The message may already be gone.
		if _, derr := r.api.Request(tgbotapi.NewDeleteMessage(chatID, a.MessageID)); derr != nil {
			r.log.Debug("delete message failed", zap.Int64("chatID", chatID), zap.Error(derr))
		}
		return
	case bot.ActAnswer:
		_, err = r.api.Request(tgbotapi.NewCallback(a.QueryID, a.Text))
	}
	if err != nil {
		r.log.Warn("telegram delivery failed",
			zap.Int64("chatID", chatID),
			zap.Int("kind", int(a.Kind)),
			zap.Error(err),
		)
	}
}

func buildMessage(chatID int64, a bot.Action) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, a.Text)
	if a.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	switch {
	case len(a.Inline) > 0:
		msg.ReplyMarkup = inlineKeyboard(a.Inline)
	case a.Keyboard != bot.KeyboardNone:
		msg.ReplyMarkup = replyKeyboard(a.Keyboard)
	}
	return msg
}

func buildEdit(chatID int64, a bot.Action) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, a.MessageID, a.Text)
	if a.HTML {
		edit.ParseMode = tgbotapi.ModeHTML
	}
	if len(a.Inline) > 0 {
		kb := inlineKeyboard(a.Inline)
		edit.ReplyMarkup = &kb
	}
	return edit
}
