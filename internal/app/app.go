package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/bot"
	"github.com/NataKl/weather-API/internal/config"
	"github.com/NataKl/weather-API/internal/scheduler"
	"github.com/NataKl/weather-API/internal/store"
	"github.com/NataKl/weather-API/internal/telegram"
	"github.com/NataKl/weather-API/internal/weather"
)

// App owns the bot's long-lived components.
type App struct {
	cfg    config.Config
	log    *zap.Logger
	bot    *tgbotapi.BotAPI
	store  *store.Store
	sched  *scheduler.Scheduler
	router *telegram.Router
}

// New connects to the Bot API; everything else is built in Run.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	api.Debug = false

	return &App{cfg: cfg, log: log, bot: api}, nil
}

// openBackend selects the persistence backend named by STORE_BACKEND.
func openBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Backend, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.DBPath, log)
	case "gcs":
		return store.OpenGCS(ctx, cfg.GCSBucket, cfg.GCSObject, log)
	default:
		return store.NewJSONFile(cfg.UserDataPath, log), nil
	}
}

// newPlaces builds the reverse-geocoding chain: Google first when a key is
// configured, then the provider's own geocoding endpoint.
func newPlaces(cfg config.Config, ow *weather.OpenWeather, log *zap.Logger) *weather.PlaceResolver {
	var chain []weather.PlaceStrategy
	if cfg.GoogleGeocoderKey != "" {
		chain = append(chain, weather.NewGoogleGeocoder(cfg.GoogleGeocoderKey))
	}
	chain = append(chain, weather.OpenWeatherGeocoder(ow))
	return weather.NewPlaceResolver(log, chain...)
}

// Run serves updates until ctx is canceled or a shutdown signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting weather-bot",
		zap.String("store", a.cfg.StoreBackend),
		zap.String("http", a.cfg.HTTPAddr),
	)

	backend, err := openBackend(ctx, a.cfg, a.log)
	if err != nil {
		a.log.Error("open store backend failed", zap.Error(err))
		return err
	}
	a.store = store.New(backend, a.log)
	a.store.Load(ctx)
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close failed", zap.Error(err))
		}
	}()

	ow := weather.NewOpenWeather(weather.OpenWeatherConfig{
		APIKey:         a.cfg.OpenWeatherAPIKey,
		BaseURL:        a.cfg.OpenWeatherBaseURL,
		Lang:           a.cfg.OpenWeatherLang,
		Client:         &http.Client{Timeout: a.cfg.HTTPTimeout},
		RequestTimeout: a.cfg.RequestTimeout,
	}, a.log)
	provider := weather.NewCachedProvider(ow, weather.NewSnapshotCache(a.cfg.CachePath, a.cfg.CacheTTL, a.log), a.log)

	conv := bot.NewRouter(bot.Options{
		Provider:       provider,
		Store:          a.store,
		Places:         newPlaces(a.cfg, ow, a.log),
		Cache:          provider,
		NotifyInterval: a.cfg.NotifyInterval,
		Log:            a.log,
	})
	a.router = telegram.NewRouter(a.bot, a.log, conv)
	a.sched = scheduler.New(a.store, provider, a.router, a.log, a.cfg.NotifyInterval, a.cfg.NotifyBackoff)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		a.sched.Run(ctx)
	}()

	flush, err := startFlush(a.store, a.cfg.StoreFlushInterval, a.log)
	if err != nil {
		a.log.Error("start store flush failed", zap.Error(err))
		return err
	}
	defer flush.Stop()

	srv := newHTTP(a.store, a.sched)
	go func() {
		if err := srv.Listen(a.cfg.HTTPAddr); err != nil {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := srv.ShutdownWithContext(shCtx); err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			cancel()

			// The scheduler performs the final persist on its way out.
			<-schedDone
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
