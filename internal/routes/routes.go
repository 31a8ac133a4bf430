package routes

import (
	"net/http"

	"github.com/shagtracker/shagbot/internal/app"
	"github.com/shagtracker/shagbot/internal/handler"
	"github.com/shagtracker/shagbot/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	webhook := handler.NewWebhookHandler(app.Router, app.Cfg.WebhookSecret)
	cron := handler.NewCronHandler(app.Sweeper)
	stats := handler.NewStatsHandler(app.Stats)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /api/bot", webhook.Receive)
	mux.HandleFunc("GET /api/cron/check-goals", cron.CheckGoals)
	mux.HandleFunc("GET /api/stats", stats.Stats)

	return middleware.Chain(mux,
		middleware.RequestLogging,
	)
}
