package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NataKl/weather-API/internal/bot"
)

// replyKeyboard builds the reply keyboard for k.
func replyKeyboard(k bot.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	var kb tgbotapi.ReplyKeyboardMarkup
	switch k {
	case bot.KeyboardBack:
		kb = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.LabelMainMenu)),
		)
	case bot.KeyboardBackLocation:
		kb = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(bot.LabelShareLocation)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.LabelMainMenu)),
		)
	case bot.KeyboardLocation:
		kb = tgbotapi.NewOneTimeReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(bot.LabelShareLocation)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.LabelCancel)),
		)
	default:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(bot.MainMenu))
		for _, labels := range bot.MainMenu {
			row := make([]tgbotapi.KeyboardButton, 0, len(labels))
			for _, l := range labels {
				row = append(row, tgbotapi.NewKeyboardButton(l))
			}
			rows = append(rows, row)
		}
		kb = tgbotapi.NewReplyKeyboard(rows...)
	}
	kb.ResizeKeyboard = true
	return kb
}

// inlineKeyboard converts transport-independent buttons.
func inlineKeyboard(rows [][]bot.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, r := range rows {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		out = append(out, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}
