package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/NataKl/weather-API/internal/scheduler"
)

// userCounter reports store totals.
type userCounter interface {
	Counts() (total, subscribed int)
}

// runReporter exposes the last scheduler iteration.
type runReporter interface {
	LastRun() (scheduler.RunStats, bool)
}

type statsResponse struct {
	Users      int                 `json:"users"`
	Subscribed int                 `json:"subscribed"`
	LastRun    *scheduler.RunStats `json:"last_run"`
}

// newHTTP builds the health and stats listener.
func newHTTP(users userCounter, runs runReporter) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-bot",
		DisableStartupMessage: true,
		ReadTimeout:           3 * time.Second,
		WriteTimeout:          3 * time.Second,
	})
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/stats", func(c *fiber.Ctx) error {
		var resp statsResponse
		resp.Users, resp.Subscribed = users.Counts()
		if run, ok := runs.LastRun(); ok {
			resp.LastRun = &run
		}
		return c.JSON(resp)
	})
	return app
}
