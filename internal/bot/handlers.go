package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
	"github.com/NataKl/weather-API/internal/format"
	"github.com/NataKl/weather-API/internal/weather"
)

func (r *Router) lookupCity(ctx context.Context, userID int64, input string) []Action {
	city, err := domain.ParseCity(input)
	if err != nil {
		return []Action{send(emptyCityText, KeyboardMain)}
	}

	c, err := r.provider.CurrentByCity(ctx, city)
	if err != nil {
		r.providerError("current by city", err, zap.String("city", city))
		if a, ok := r.cached(weather.CityQuery(city), err); ok {
			return []Action{a}
		}
		return []Action{send(fmt.Sprintf(cityNotFoundFmt, city), KeyboardMain)}
	}

	name := c.City
	if name == "" {
		name = city
	}
	r.store.Update(userID, func(u *domain.User) {
		u.Location = &domain.Location{Lat: c.Lat, Lon: c.Lon, Name: name}
	})
	r.persist(ctx)

	return []Action{sendHTML(format.Weather(c, ""), KeyboardMain)}
}

func (r *Router) shareLocation(ctx context.Context, userID int64, lat, lon float64) []Action {
	c, err := r.provider.CurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		r.providerError("current by coordinates", err, zap.Float64("lat", lat), zap.Float64("lon", lon))
		if a, ok := r.cached(weather.CoordsQuery(lat, lon), err); ok {
			return []Action{a}
		}
		return []Action{send(locationFailed, KeyboardMain)}
	}

	name := c.City
	if r.places != nil {
		name = r.places.Resolve(ctx, lat, lon, c.City)
	} else if name == "" {
		name = weather.DefaultPlaceName
	}
	r.store.Update(userID, func(u *domain.User) {
		u.Location = &domain.Location{Lat: lat, Lon: lon, Name: name}
	})
	r.persist(ctx)

	return []Action{
		sendHTML(format.Weather(c, name), KeyboardNone),
		send(locationSaved, KeyboardMain),
	}
}

func (r *Router) extendedByCity(ctx context.Context, input string) []Action {
	city, err := domain.ParseCity(input)
	if err != nil {
		return []Action{send(emptyCityText, KeyboardMain)}
	}
	c, err := r.provider.CurrentByCity(ctx, city)
	if err != nil {
		r.providerError("current by city", err, zap.String("city", city))
		return []Action{send(fmt.Sprintf(cityNotFoundFmt, city), KeyboardMain)}
	}
	return []Action{sendHTML(format.Extended(c, r.pollution(ctx, c.Lat, c.Lon)), KeyboardMain)}
}

func (r *Router) extendedByCoords(ctx context.Context, lat, lon float64) []Action {
	c, err := r.provider.CurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		r.providerError("current by coordinates", err, zap.Float64("lat", lat), zap.Float64("lon", lon))
		return []Action{send(weatherFailed, KeyboardMain)}
	}
	return []Action{sendHTML(format.Extended(c, r.pollution(ctx, lat, lon)), KeyboardMain)}
}

// pollution returns nil when air-quality data is unavailable; the extended
// view is still shown without it.
func (r *Router) pollution(ctx context.Context, lat, lon float64) *domain.Pollution {
	p, err := r.provider.PollutionByCoordinates(ctx, lat, lon)
	if err != nil {
		r.providerError("pollution", err, zap.Float64("lat", lat), zap.Float64("lon", lon))
		return nil
	}
	return &p
}

func (r *Router) compare(ctx context.Context, input string) []Action {
	first, second, err := domain.ParseCityPair(input)
	switch {
	case errors.Is(err, domain.ErrNoSeparator):
		return []Action{sendHTML(noSeparatorText, KeyboardMain)}
	case err != nil:
		return []Action{send(notTwoCitiesText, KeyboardMain)}
	}

	a, err := r.provider.CurrentByCity(ctx, first)
	if err != nil {
		r.providerError("current by city", err, zap.String("city", first))
		return []Action{send(fmt.Sprintf(pairNotFoundFmt, first), KeyboardMain)}
	}
	b, err := r.provider.CurrentByCity(ctx, second)
	if err != nil {
		r.providerError("current by city", err, zap.String("city", second))
		return []Action{send(fmt.Sprintf(pairNotFoundFmt, second), KeyboardMain)}
	}
	if a.City == "" {
		a.City = first
	}
	if b.City == "" {
		b.City = second
	}
	return []Action{sendHTML(format.Compare(a, b), KeyboardMain)}
}

func (r *Router) forecast(ctx context.Context, userID int64) []Action {
	u, _ := r.store.Get(userID)
	if !u.HasLocation() {
		return []Action{send(needLocationForecast, KeyboardMain)}
	}
	f, err := r.provider.ForecastByCoordinates(ctx, u.Location.Lat, u.Location.Lon)
	if err != nil {
		r.providerError("forecast", err, zap.Int64("userID", userID))
		return []Action{send(forecastFailed, KeyboardMain)}
	}
	text, inline := selectorView(placeName(u), f)
	return []Action{{Kind: ActSend, Text: text, HTML: true, Inline: inline}}
}

func (r *Router) forecastDay(ctx context.Context, userID int64, b ButtonPress, date string) []Action {
	u, _ := r.store.Get(userID)
	if !u.HasLocation() {
		return []Action{answer(b.QueryID, needLocationNotify)}
	}
	f, err := r.provider.ForecastByCoordinates(ctx, u.Location.Lat, u.Location.Lon)
	if err != nil {
		r.providerError("forecast", err, zap.Int64("userID", userID))
		return []Action{answer(b.QueryID, forecastFetchFailed)}
	}
	zone := f.Zone()
	entries := domain.EntriesOn(f.Entries, zone, date)
	if len(entries) == 0 {
		return []Action{answer(b.QueryID, forecastDayMissing)}
	}
	return []Action{
		{
			Kind:      ActEdit,
			MessageID: b.MessageID,
			Text:      format.DayDetail(placeName(u), entries, zone),
			HTML:      true,
			Inline: [][]Button{
				{{Text: btnBackToDays, Data: DataBackToForecast}},
				{{Text: btnClose, Data: DataCloseForecast}},
			},
		},
		answer(b.QueryID, ""),
	}
}

func (r *Router) backToForecast(ctx context.Context, userID int64, b ButtonPress) []Action {
	u, _ := r.store.Get(userID)
	if !u.HasLocation() {
		return []Action{answer(b.QueryID, needLocationNotify)}
	}
	f, err := r.provider.ForecastByCoordinates(ctx, u.Location.Lat, u.Location.Lon)
	if err != nil {
		r.providerError("forecast", err, zap.Int64("userID", userID))
		return []Action{answer(b.QueryID, forecastFetchFailed)}
	}
	text, inline := selectorView(placeName(u), f)
	return []Action{
		{Kind: ActEdit, MessageID: b.MessageID, Text: text, HTML: true, Inline: inline},
		answer(b.QueryID, ""),
	}
}

func selectorView(city string, f domain.Forecast) (string, [][]Button) {
	days := domain.GroupByDay(f.Entries, f.Zone(), domain.MaxForecastDays)
	rows := make([][]Button, 0, len(days)+1)
	for _, d := range days {
		rows = append(rows, []Button{{Text: format.DayButton(d), Data: DataForecastPrefix + d.Date}})
	}
	rows = append(rows, []Button{{Text: btnClose, Data: DataCloseForecast}})
	return format.ForecastSelector(city), rows
}

func (r *Router) notifications(userID int64) []Action {
	u, _ := r.store.Get(userID)
	if !u.HasLocation() {
		return []Action{send(needLocationNotify, KeyboardMain)}
	}
	return []Action{{
		Kind:   ActSend,
		Text:   notifyStatusText(u.NotificationsEnabled, r.every),
		HTML:   true,
		Inline: toggleButtons(u.NotificationsEnabled),
	}}
}

func (r *Router) toggleNotifications(ctx context.Context, userID int64, b ButtonPress, on bool) []Action {
	now := r.now()
	r.store.Update(userID, func(u *domain.User) {
		u.NotificationsEnabled = on
		// Enabling counts as a fresh pass so the first alert waits a full interval.
		if on {
			t := now
			u.LastNotifiedAt = &t
		}
	})
	r.persist(ctx)
	r.log.Info("notifications toggled", zap.Int64("userID", userID), zap.Bool("enabled", on))

	notice := notifyOffAnswer
	if on {
		notice = notifyOnAnswer
	}
	return []Action{
		answer(b.QueryID, notice),
		{
			Kind:      ActEdit,
			MessageID: b.MessageID,
			Text:      notifyStatusText(on, r.every),
			HTML:      true,
			Inline:    toggleButtons(on),
		},
	}
}

func toggleButtons(enabled bool) [][]Button {
	if enabled {
		return [][]Button{{{Text: btnNotifyOff, Data: DataNotifyOff}}}
	}
	return [][]Button{{{Text: btnNotifyOn, Data: DataNotifyOn}}}
}

func placeName(u domain.User) string {
	if u.Location == nil || u.Location.Name == "" {
		return weather.DefaultPlaceName
	}
	return u.Location.Name
}

// cached renders a fresh snapshot for q when the live call failed transiently.
func (r *Router) cached(q weather.Query, err error) (Action, bool) {
	if r.cache == nil || !weather.IsTransient(err) {
		return Action{}, false
	}
	now := r.now()
	s, ok := r.cache.Lookup(q, now)
	if !ok {
		return Action{}, false
	}
	return sendHTML(format.Weather(s.Conditions, "")+format.CachedNote(s.Age(now)), KeyboardMain), true
}

func (r *Router) providerError(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	switch {
	case errors.Is(err, weather.ErrUnauthorized):
		r.log.Error("weather provider rejected credentials, check OPENWEATHER_API_KEY", fields...)
	case errors.Is(err, weather.ErrNotFound):
		r.log.Debug("weather lookup found nothing", fields...)
	default:
		r.log.Warn("weather lookup failed", fields...)
	}
}
