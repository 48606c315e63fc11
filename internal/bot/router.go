package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
	"github.com/NataKl/weather-API/internal/weather"
)

// Mode is the per-user pending continuation.
type Mode int

const (
	ModeIdle Mode = iota
	// ModeAwaitingCity expects a city for a plain lookup.
	ModeAwaitingCity
	// ModeAwaitingExtended expects a city or a location share for the
	// extended view.
	ModeAwaitingExtended
	// ModeAwaitingCityPair expects "city, city".
	ModeAwaitingCityPair
)

func (m Mode) String() string {
	switch m {
	case ModeAwaitingCity:
		return "awaiting_city"
	case ModeAwaitingExtended:
		return "awaiting_extended"
	case ModeAwaitingCityPair:
		return "awaiting_city_pair"
	default:
		return "idle"
	}
}

// Store is the subset of the user store the router needs.
type Store interface {
	Get(id int64) (domain.User, bool)
	GetOrCreate(id int64) domain.User
	Update(id int64, fn func(u *domain.User)) domain.User
	Persist(ctx context.Context) error
}

// PlaceResolver names a coordinate pair.
type PlaceResolver interface {
	Resolve(ctx context.Context, lat, lon float64, fallback string) string
}

// SnapshotLookup returns a recent cached reading for a query.
type SnapshotLookup interface {
	Lookup(q weather.Query, now time.Time) (weather.Snapshot, bool)
}

// Options configures a Router. Places and Cache are optional.
type Options struct {
	Provider       weather.Provider
	Store          Store
	Places         PlaceResolver
	Cache          SnapshotLookup
	NotifyInterval time.Duration
	Log            *zap.Logger
}

// Router dispatches events by the user's current mode.
type Router struct {
	provider weather.Provider
	store    Store
	places   PlaceResolver
	cache    SnapshotLookup
	every    time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	modes map[int64]Mode
}

// NewRouter creates a conversation router from o.
func NewRouter(o Options) *Router {
	if o.NotifyInterval <= 0 {
		o.NotifyInterval = 2 * time.Hour
	}
	return &Router{
		provider: o.Provider,
		store:    o.Store,
		places:   o.Places,
		cache:    o.Cache,
		every:    o.NotifyInterval,
		log:      o.Log,
		now:      time.Now,
		modes:    make(map[int64]Mode),
	}
}

// Mode returns the user's pending continuation.
func (r *Router) Mode(userID int64) Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modes[userID]
}

func (r *Router) setMode(userID int64, m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m == ModeIdle {
		delete(r.modes, userID)
		return
	}
	r.modes[userID] = m
}

// takeMode returns the pending mode and resets the user to idle.
func (r *Router) takeMode(userID int64) Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.modes[userID]
	delete(r.modes, userID)
	return m
}

// WillFetch reports whether handling ev is expected to call the weather
// provider, so the transport can show a typing indicator first.
func (r *Router) WillFetch(userID int64, ev Event) bool {
	switch e := ev.(type) {
	case LocationShare:
		return true
	case Command:
		return e.Name == CmdForecast
	case Text:
		if name, ok := menuCommands[e.Value]; ok {
			return name == CmdForecast
		}
		if e.Value == LabelMainMenu || e.Value == LabelCancel || strings.TrimSpace(e.Value) == "" {
			return false
		}
		return r.Mode(userID) != ModeIdle
	}
	return false
}

// Handle processes one event and returns the actions to perform.
func (r *Router) Handle(ctx context.Context, userID int64, ev Event) []Action {
	r.store.GetOrCreate(userID)
	log := r.log.With(zap.Int64("userID", userID))

	switch e := ev.(type) {
	case Command:
		r.setMode(userID, ModeIdle)
		return r.command(ctx, userID, e.Name)

	case Text:
		if name, ok := menuCommands[e.Value]; ok {
			r.setMode(userID, ModeIdle)
			return r.command(ctx, userID, name)
		}
		switch e.Value {
		case LabelMainMenu:
			r.setMode(userID, ModeIdle)
			return []Action{sendHTML(mainMenuText, KeyboardMain)}
		case LabelCancel:
			r.setMode(userID, ModeIdle)
			return []Action{send(cancelledText, KeyboardMain)}
		}

		mode := r.takeMode(userID)
		log.Debug("text input", zap.Stringer("mode", mode))
		switch mode {
		case ModeAwaitingCity:
			return r.lookupCity(ctx, userID, e.Value)
		case ModeAwaitingExtended:
			return r.extendedByCity(ctx, e.Value)
		case ModeAwaitingCityPair:
			return r.compare(ctx, e.Value)
		default:
			return []Action{send(unknownText, KeyboardMain)}
		}

	case LocationShare:
		if r.takeMode(userID) == ModeAwaitingExtended {
			return r.extendedByCoords(ctx, e.Lat, e.Lon)
		}
		return r.shareLocation(ctx, userID, e.Lat, e.Lon)

	case ButtonPress:
		return r.button(ctx, userID, e)
	}
	return nil
}

func (r *Router) command(ctx context.Context, userID int64, name string) []Action {
	switch name {
	case CmdStart, CmdHelp:
		return []Action{sendHTML(welcomeText, KeyboardMain)}
	case CmdMenu:
		return []Action{send(menuShownText, KeyboardMain)}
	case CmdWeather:
		r.setMode(userID, ModeAwaitingCity)
		return []Action{send(askCityText, KeyboardBack)}
	case CmdCompare:
		r.setMode(userID, ModeAwaitingCityPair)
		return []Action{sendHTML(askPairText, KeyboardBack)}
	case CmdExtended:
		r.setMode(userID, ModeAwaitingExtended)
		return []Action{sendHTML(askExtendedText, KeyboardBackLocation)}
	case CmdLocation:
		return []Action{send(askLocationText, KeyboardLocation)}
	case CmdForecast:
		return r.forecast(ctx, userID)
	case CmdNotifications:
		return r.notifications(userID)
	default:
		return []Action{send(unknownCmd, KeyboardMain)}
	}
}

func (r *Router) button(ctx context.Context, userID int64, b ButtonPress) []Action {
	switch {
	case strings.HasPrefix(b.Data, DataForecastPrefix):
		return r.forecastDay(ctx, userID, b, strings.TrimPrefix(b.Data, DataForecastPrefix))
	case b.Data == DataBackToForecast:
		return r.backToForecast(ctx, userID, b)
	case b.Data == DataCloseForecast:
		return []Action{
			{Kind: ActDelete, MessageID: b.MessageID},
			answer(b.QueryID, forecastClosed),
		}
	case b.Data == DataNotifyOn, b.Data == DataNotifyOff:
		return r.toggleNotifications(ctx, userID, b, b.Data == DataNotifyOn)
	default:
		r.log.Debug("unknown callback", zap.Int64("userID", userID), zap.String("data", b.Data))
		return []Action{answer(b.QueryID, "")}
	}
}

func (r *Router) persist(ctx context.Context) {
	if err := r.store.Persist(ctx); err != nil {
		r.log.Error("persist users", zap.Error(err))
	}
}
