package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NataKl/weather-API/internal/bot"
)

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 100},
		From:      &tgbotapi.User{ID: 200},
		Text:      text,
	}
}

func TestToEvent(t *testing.T) {
	cmd := message("/weather@WeatherBot")
	cmd.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/weather@WeatherBot")}}

	loc := message("")
	loc.Location = &tgbotapi.Location{Latitude: 55.75, Longitude: 37.62}

	tests := []struct {
		name string
		upd  tgbotapi.Update
		want bot.Event
	}{
		{"command", tgbotapi.Update{Message: cmd}, bot.Command{Name: "weather"}},
		{"text", tgbotapi.Update{Message: message("Москва")}, bot.Text{Value: "Москва"}},
		{"location", tgbotapi.Update{Message: loc}, bot.LocationShare{Lat: 55.75, Lon: 37.62}},
		{"callback", tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "q1",
			From:    &tgbotapi.User{ID: 200},
			Message: message(""),
			Data:    "notif_on",
		}}, bot.ButtonPress{Data: "notif_on", QueryID: "q1", MessageID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := toEvent(tt.upd)
			if !ok {
				t.Fatal("update must be accepted")
			}
			if in.event != tt.want {
				t.Fatalf("got %#v, want %#v", in.event, tt.want)
			}
			if in.userID != 200 || in.chatID != 100 {
				t.Fatalf("unexpected ids %d/%d", in.userID, in.chatID)
			}
		})
	}

	if _, ok := toEvent(tgbotapi.Update{Message: message("")}); ok {
		t.Fatal("empty message must be ignored")
	}
	if _, ok := toEvent(tgbotapi.Update{}); ok {
		t.Fatal("unsupported update must be ignored")
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage(1, bot.Action{Kind: bot.ActSend, Text: "x", HTML: true, Keyboard: bot.KeyboardMain})
	if msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatal("html flag must set parse mode")
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	if !ok || len(kb.Keyboard) != 4 || !kb.ResizeKeyboard {
		t.Fatalf("unexpected main keyboard: %#v", msg.ReplyMarkup)
	}
	if kb.Keyboard[0][0].Text != bot.LabelWeather || kb.Keyboard[3][0].Text != bot.LabelHelp {
		t.Fatal("main keyboard order changed")
	}

	msg = buildMessage(1, bot.Action{Kind: bot.ActSend, Text: "x", Inline: [][]bot.Button{{{Text: "a", Data: "b"}}}})
	inline, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || *inline.InlineKeyboard[0][0].CallbackData != "b" {
		t.Fatalf("unexpected inline keyboard: %#v", msg.ReplyMarkup)
	}

	loc := replyKeyboard(bot.KeyboardLocation)
	if !loc.Keyboard[0][0].RequestLocation || !loc.OneTimeKeyboard {
		t.Fatal("location keyboard must request the location once")
	}
}

func TestBuildEdit(t *testing.T) {
	edit := buildEdit(1, bot.Action{Kind: bot.ActEdit, MessageID: 7, Text: "y", Inline: [][]bot.Button{{{Text: "a", Data: "b"}}}})
	if edit.MessageID != 7 || edit.ReplyMarkup == nil {
		t.Fatalf("unexpected edit: %#v", edit)
	}
}
