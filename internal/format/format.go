// Package format renders weather data as Telegram HTML messages.
package format

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NataKl/weather-API/internal/domain"
)

const (
	unknownCity = "Неизвестно"
	notAvail    = "N/A"
	hpaToMMHg   = 0.750062
	separator   = "──────────────────────────────"
)

var (
	weekdayShort = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	weekdayLong  = [...]string{"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"}
)

// Number renders a measurement the way users expect: whole values keep one
// decimal place (18.0), others print with their own precision (18.25).
func Number(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PressureMMHg converts hPa to whole millimetres of mercury.
func PressureMMHg(hpa float64) int {
	return int(math.Round(hpa * hpaToMMHg))
}

// Capitalize upper-cases the first letter.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func esc(s string) string { return html.EscapeString(s) }

func cityOr(name string) string {
	if strings.TrimSpace(name) == "" {
		return unknownCity
	}
	return name
}

// Weather is the short current-conditions message. An empty city falls back
// to the provider's name.
func Weather(c domain.Conditions, city string) string {
	if city == "" {
		city = c.City
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Погода в городе %s</b>\n\n", domain.WeatherEmoji(c.Description), esc(cityOr(city)))
	fmt.Fprintf(&b, "🌡️ Температура: <b>%s°C</b>\n", Number(c.Temp))
	fmt.Fprintf(&b, "🤔 Ощущается как: <b>%s°C</b>\n", Number(c.FeelsLike))
	fmt.Fprintf(&b, "💧 Влажность: <b>%d%%</b>\n", c.Humidity)
	fmt.Fprintf(&b, "🌪️ Ветер: <b>%s м/с</b>\n", Number(c.WindSpeed))
	fmt.Fprintf(&b, "📊 Давление: <b>%d мм рт. ст.</b>\n", PressureMMHg(c.Pressure))
	fmt.Fprintf(&b, "📝 Описание: <b>%s</b>", esc(Capitalize(c.Description)))
	return b.String()
}

// Extended is the detailed view with sun times and optional air quality.
func Extended(c domain.Conditions, p *domain.Pollution) string {
	zone := time.FixedZone("", c.TZOffset)
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Расширенная информация о погоде</b>\n", domain.WeatherEmoji(c.Description))
	fmt.Fprintf(&b, "📍 <b>Город:</b> %s\n\n", esc(cityOr(c.City)))

	b.WriteString("<b>🌡️ ТЕМПЕРАТУРА</b>\n")
	fmt.Fprintf(&b, "  • Текущая: <b>%s°C</b>\n", Number(c.Temp))
	fmt.Fprintf(&b, "  • Ощущается: <b>%s°C</b>\n\n", Number(c.FeelsLike))

	b.WriteString("<b>💨 ВЕТЕР И АТМОСФЕРА</b>\n")
	fmt.Fprintf(&b, "  • Скорость ветра: <b>%s м/с</b>\n", Number(c.WindSpeed))
	fmt.Fprintf(&b, "  • Давление: <b>%d мм рт. ст.</b>\n", PressureMMHg(c.Pressure))
	fmt.Fprintf(&b, "  • Влажность: <b>%d%%</b>\n", c.Humidity)
	fmt.Fprintf(&b, "  • Облачность: <b>%d%%</b>\n\n", c.Clouds)

	b.WriteString("<b>🌅 СОЛНЦЕ</b>\n")
	fmt.Fprintf(&b, "  • Восход: <b>%s</b>\n", clock(c.Sunrise, zone))
	fmt.Fprintf(&b, "  • Закат: <b>%s</b>\n\n", clock(c.Sunset, zone))

	if p != nil && len(p.Readings) > 0 {
		cat, by := domain.MaxCategory(p.Readings)
		b.WriteString("<b>🏭 КАЧЕСТВО ВОЗДУХА</b>\n")
		if by != "" {
			fmt.Fprintf(&b, "  • Общий индекс: <b>%s</b> (%s)\n", cat.Label(), by)
		} else {
			fmt.Fprintf(&b, "  • Общий индекс: <b>%s</b>\n", cat.Label())
		}
		for _, pol := range []domain.Pollutant{domain.PollutantPM25, domain.PollutantPM10, domain.PollutantCO} {
			fmt.Fprintf(&b, "  • %s: <b>%s µg/m³</b>\n", pol, pollutantValue(*p, pol))
		}
	}

	fmt.Fprintf(&b, "\n📝 <b>Описание:</b> %s", esc(Capitalize(c.Description)))
	return b.String()
}

func pollutantValue(p domain.Pollution, pol domain.Pollutant) string {
	if v, ok := p.Value(pol); ok {
		return Number(v)
	}
	return notAvail
}

func clock(t time.Time, zone *time.Location) string {
	if t.IsZero() {
		return notAvail
	}
	return t.In(zone).Format("15:04")
}

// Compare puts two cities side by side.
func Compare(a, b domain.Conditions) string {
	na, nb := esc(cityOr(a.City)), esc(cityOr(b.City))

	var verdict string
	switch diff := math.Abs(a.Temp - b.Temp); {
	case a.Temp > b.Temp:
		verdict = fmt.Sprintf("В %s теплее на %.1f°C", na, diff)
	case b.Temp > a.Temp:
		verdict = fmt.Sprintf("В %s теплее на %.1f°C", nb, diff)
	default:
		verdict = "Температура одинаковая"
	}

	var s strings.Builder
	s.WriteString("⚖️ <b>Сравнение погоды</b>\n\n")
	fmt.Fprintf(&s, "<b>%s</b>\n", separator)
	fmt.Fprintf(&s, "<b>%s %s</b> vs <b>%s %s</b>\n", domain.WeatherEmoji(a.Description), na, domain.WeatherEmoji(b.Description), nb)
	fmt.Fprintf(&s, "<b>%s</b>\n\n", separator)

	s.WriteString("🌡️ <b>Температура:</b>\n")
	fmt.Fprintf(&s, "  • %s: <b>%s°C</b>\n", na, Number(a.Temp))
	fmt.Fprintf(&s, "  • %s: <b>%s°C</b>\n", nb, Number(b.Temp))
	fmt.Fprintf(&s, "  ℹ️ %s\n\n", verdict)

	s.WriteString("💧 <b>Влажность:</b>\n")
	fmt.Fprintf(&s, "  • %s: <b>%d%%</b>\n", na, a.Humidity)
	fmt.Fprintf(&s, "  • %s: <b>%d%%</b>\n\n", nb, b.Humidity)

	s.WriteString("💨 <b>Ветер:</b>\n")
	fmt.Fprintf(&s, "  • %s: <b>%s м/с</b>\n", na, Number(a.WindSpeed))
	fmt.Fprintf(&s, "  • %s: <b>%s м/с</b>\n\n", nb, Number(b.WindSpeed))

	s.WriteString("📊 <b>Давление:</b>\n")
	fmt.Fprintf(&s, "  • %s: <b>%d мм</b>\n", na, PressureMMHg(a.Pressure))
	fmt.Fprintf(&s, "  • %s: <b>%d мм</b>\n\n", nb, PressureMMHg(b.Pressure))

	s.WriteString("📝 <b>Описание:</b>\n")
	fmt.Fprintf(&s, "  • %s: %s\n", na, esc(Capitalize(a.Description)))
	fmt.Fprintf(&s, "  • %s: %s", nb, esc(Capitalize(b.Description)))
	return s.String()
}

// ForecastSelector is the header of the day-selection view.
func ForecastSelector(city string) string {
	return fmt.Sprintf("📅 <b>Прогноз погоды на 5 дней</b>\n📍 %s\n\nВыберите день для подробной информации:", esc(city))
}

// DayButton labels one day in the selector, e.g. "☀️ 05.05 (Пн) (15.0°C)".
func DayButton(d domain.DayBucket) string {
	return fmt.Sprintf("%s %s (%s) (%.1f°C)",
		domain.WeatherEmoji(d.Description), d.Day.Format("02.01"), weekdayShort[d.Day.Weekday()], d.AvgTemp)
}

// DayDetail is the hour-by-hour view of one forecast day.
func DayDetail(city string, entries []domain.ForecastEntry, zone *time.Location) string {
	var b strings.Builder
	if len(entries) > 0 {
		day := entries[0].At.In(zone)
		fmt.Fprintf(&b, "📅 <b>Детальный прогноз на %s (%s)</b>\n", day.Format("02.01.2006"), weekdayLong[day.Weekday()])
	}
	fmt.Fprintf(&b, "📍 %s\n\n", esc(city))
	for _, e := range entries {
		fmt.Fprintf(&b, "🕐 <b>%s</b>\n", e.At.In(zone).Format("15:04"))
		fmt.Fprintf(&b, "%s %.1f°C (ощущ. %.1f°C)\n", domain.WeatherEmoji(e.Description), e.Temp, e.FeelsLike)
		fmt.Fprintf(&b, "💨 %s м/с | 💧 %d%%\n", Number(e.WindSpeed), e.Humidity)
		fmt.Fprintf(&b, "📝 %s\n\n", esc(Capitalize(e.Description)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Alert is the scheduler push: a severity banner above the weather message.
func Alert(s domain.Severity, c domain.Conditions, city string) string {
	return s.Banner() + "\n\n" + Weather(c, city)
}

// CachedNote explains that a message was built from stale data.
func CachedNote(age time.Duration) string {
	if age < 0 {
		age = 0
	}
	h := int(age / time.Hour)
	m := int(age % time.Hour / time.Minute)
	return fmt.Sprintf("\n\n⚠️ <i>Сервис погоды недоступен. Данные из кэша, получены %dч %dмин назад</i>", h, m)
}
