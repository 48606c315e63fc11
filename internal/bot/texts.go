package bot

import (
	"fmt"
	"time"
)

const (
	welcomeText = "🌤️ <b>Добро пожаловать в WeatherBot!</b>\n\n" +
		"Я помогу вам узнать погоду в любой точке мира! 🌍\n\n" +
		"<b>📋 Выберите действие из меню ниже:</b>\n\n" +
		"Нажмите на кнопки внизу экрана 👇"
	mainMenuText  = "🌤️ <b>Главное меню WeatherBot</b>\n\nВыберите нужное действие из меню ниже 👇"
	menuShownText = "📱 Меню отображено! Кнопки должны появиться внизу экрана."
	cancelledText = "❌ Отменено."
	unknownText   = "🤔 Не понимаю. Выберите действие из меню ниже 👇"
	unknownCmd    = "❓ Неизвестная команда. Выберите действие из меню ниже 👇"

	askCityText     = "🏙️ Введите название города на русском или английском языке:"
	askPairText     = "⚖️ Введите два города через запятую для сравнения.\n\nНапример: <code>Москва, Санкт-Петербург</code>"
	askExtendedText = "📊 <b>Расширенные данные о погоде</b>\n\nВведите название города или покажите местоположение:"
	askLocationText = "📍 Нажмите на кнопку ниже, чтобы показать своё местоположение:"

	emptyCityText    = "❌ Вы не ввели название города!"
	cityNotFoundFmt  = "❌ Не удалось найти город '%s'. Проверьте правильность написания."
	pairNotFoundFmt  = "❌ Не удалось найти город '%s'"
	noSeparatorText  = "❌ Пожалуйста, введите два города через запятую.\nНапример: <code>Москва, Санкт-Петербург</code>"
	notTwoCitiesText = "❌ Нужно ввести ровно два города через запятую."
	weatherFailed    = "❌ Не удалось получить данные о погоде"
	locationFailed   = "❌ Не удалось получить погоду для данного местоположения."
	locationSaved    = "✅ Ваше местоположение сохранено! Теперь вы можете использовать прогноз на 5 дней."

	needLocationForecast = "❌ Сначала покажите своё местоположение через /location или узнайте погоду в городе через /weather"
	needLocationNotify   = "❌ Сначала покажите местоположение через /location или /weather"
	forecastFailed       = "❌ Не удалось получить прогноз погоды"
	forecastFetchFailed  = "❌ Ошибка получения данных"
	forecastDayMissing   = "❌ Данные не найдены"
	forecastClosed       = "✅ Закрыто"

	btnBackToDays = "◀️ Назад к выбору дня"
	btnClose      = "❌ Закрыть"
	btnNotifyOn   = "🔔 Включить уведомления"
	btnNotifyOff  = "🔕 Отключить уведомления"

	notifyOnAnswer  = "✅ Уведомления включены!"
	notifyOffAnswer = "✅ Уведомления отключены!"
)

func notifyStatusText(enabled bool, every time.Duration) string {
	if enabled {
		return fmt.Sprintf("🔔 <b>Уведомления включены</b>\n\nВы будете получать уведомления о погоде %s.", everyText(every))
	}
	return fmt.Sprintf("🔕 <b>Уведомления отключены</b>\n\nВключите уведомления, чтобы получать информацию о погоде %s.", everyText(every))
}

// everyText renders an interval as "каждые 2 часа", "каждый час", "каждые 30 минут".
func everyText(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "каждый час"
		}
		return fmt.Sprintf("каж%s %d %s", everyPrefix(h), h, plural(h, "час", "часа", "часов"))
	}
	m := int(d / time.Minute)
	return fmt.Sprintf("каж%s %d %s", everyPrefix(m), m, plural(m, "минуту", "минуты", "минут"))
}

func everyPrefix(n int) string {
	if n%10 == 1 && n%100 != 11 {
		return "дый"
	}
	return "дые"
}

func plural(n int, one, few, many string) string {
	switch n10, n100 := n%10, n%100; {
	case n10 == 1 && n100 != 11:
		return one
	case n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14):
		return few
	default:
		return many
	}
}
