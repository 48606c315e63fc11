// Package bot implements the conversation flows independently of the chat
// transport: events go in, actions come out.
package bot

// Event is an inbound chat event.
type Event interface{ isEvent() }

// Command is a slash command or a main-menu button label.
type Command struct{ Name string }

// Text is free-form user input.
type Text struct{ Value string }

// LocationShare is a shared geographic position.
type LocationShare struct{ Lat, Lon float64 }

// ButtonPress is an inline button callback.
type ButtonPress struct {
	Data      string
	QueryID   string
	MessageID int
}

func (Command) isEvent()       {}
func (Text) isEvent()          {}
func (LocationShare) isEvent() {}
func (ButtonPress) isEvent()   {}

// Command names.
const (
	CmdStart         = "start"
	CmdHelp          = "help"
	CmdMenu          = "menu"
	CmdWeather       = "weather"
	CmdForecast      = "forecast"
	CmdLocation      = "location"
	CmdNotifications = "notifications"
	CmdCompare       = "compare"
	CmdExtended      = "extended"
)

// Inline button data.
const (
	DataForecastPrefix = "forecast_"
	DataBackToForecast = "back_to_forecast"
	DataCloseForecast  = "close_forecast"
	DataNotifyOn       = "notif_on"
	DataNotifyOff      = "notif_off"
)

// Reply keyboard labels.
const (
	LabelWeather       = "🏙️ Погода в городе"
	LabelForecast      = "📅 Прогноз на 5 дней"
	LabelLocation      = "📍 Моё местоположение"
	LabelNotifications = "🔔 Уведомления"
	LabelCompare       = "⚖️ Сравнить города"
	LabelExtended      = "📊 Расширенные данные"
	LabelHelp          = "❓ Помощь"
	LabelMainMenu      = "◀️ Главное меню"
	LabelShareLocation = "📍 Показать местоположение"
	LabelCancel        = "❌ Отмена"
)

// menuCommands maps main-menu labels to the command they stand for.
var menuCommands = map[string]string{
	LabelWeather:       CmdWeather,
	LabelForecast:      CmdForecast,
	LabelLocation:      CmdLocation,
	LabelNotifications: CmdNotifications,
	LabelCompare:       CmdCompare,
	LabelExtended:      CmdExtended,
	LabelHelp:          CmdHelp,
}

// Keyboard selects the reply keyboard attached to a sent message.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardBack
	// KeyboardBackLocation offers a location button above the back button.
	KeyboardBackLocation
	// KeyboardLocation asks for the location with a cancel option.
	KeyboardLocation
)

// MainMenu is the main keyboard layout, row by row.
var MainMenu = [][]string{
	{LabelWeather, LabelForecast},
	{LabelLocation, LabelNotifications},
	{LabelCompare, LabelExtended},
	{LabelHelp},
}

// Button is an inline button.
type Button struct {
	Text string
	Data string
}

// ActionKind says what an Action does.
type ActionKind int

const (
	ActSend ActionKind = iota
	ActEdit
	ActDelete
	ActAnswer
)

// Action is one outbound operation for the transport to perform in order.
type Action struct {
	Kind ActionKind
	Text string
	HTML bool
	// Keyboard applies to ActSend only.
	Keyboard Keyboard
	Inline   [][]Button
	// MessageID targets ActEdit and ActDelete.
	MessageID int
	// QueryID targets ActAnswer.
	QueryID string
}

func send(text string, kb Keyboard) Action {
	return Action{Kind: ActSend, Text: text, Keyboard: kb}
}

func sendHTML(text string, kb Keyboard) Action {
	return Action{Kind: ActSend, Text: text, HTML: true, Keyboard: kb}
}

func answer(queryID, text string) Action {
	return Action{Kind: ActAnswer, QueryID: queryID, Text: text}
}
