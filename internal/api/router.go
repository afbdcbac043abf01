// Файл: internal/api/router.go
package api

import (
	"github.com/go-chi/chi/v5"

	"ticketbridge/internal/config"
	"ticketbridge/internal/handlers"
	"ticketbridge/internal/notifier"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Config   *config.Config
	Replies  *handlers.ReplyHandler
	Notifier *notifier.Notifier
}

// SetupRoutes настраивает все маршруты для API.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	r.Get("/healthz", HealthHandler)

	// Вебхук Telegram. Секрет задается при setWebhook и приходит в заголовке.
	r.Group(func(r chi.Router) {
		r.Use(SecretHeaderMiddleware("X-Telegram-Bot-Api-Secret-Token", deps.Config.WebhookSecret))
		r.Post("/telegram/webhook", WebhookHandler(deps))
	})

	// Служебные эндпоинты для админа/скриптов.
	r.Group(func(r chi.Router) {
		r.Use(SecretHeaderMiddleware("X-Admin-Token", deps.Config.AdminAPIToken))
		r.Post("/api/notifier/run", RunNotifierHandler(deps))
		r.Get("/api/tickets/export", ExportTicketsHandler(deps))
	})
}
