package domain

import "strings"

// weatherEmoji is matched in order; the first key contained in the
// description wins.
var weatherEmoji = []struct {
	key   string
	emoji string
}{
	{"ясно", "☀️"},
	{"облачно", "☁️"},
	{"пасмурно", "☁️"},
	{"дождь", "🌧️"},
	{"небольшой дождь", "🌦️"},
	{"гроза", "⛈️"},
	{"снег", "❄️"},
	{"туман", "🌫️"},
	{"ветер", "💨"},
}

// DefaultEmoji is used when no key matches.
const DefaultEmoji = "🌍"

// WeatherEmoji picks the emoji for a provider description.
func WeatherEmoji(description string) string {
	d := strings.ToLower(description)
	for _, e := range weatherEmoji {
		if strings.Contains(d, e.key) {
			return e.emoji
		}
	}
	return DefaultEmoji
}
