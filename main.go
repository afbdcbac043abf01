package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"ticketbridge/internal/api"
	"ticketbridge/internal/config"
	"ticketbridge/internal/db"
	"ticketbridge/internal/handlers"
	"ticketbridge/internal/notifier"
	"ticketbridge/internal/telegram_api"
)

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Критическая ошибка: не удалось подключиться к базе заявок: %v", err)
	}
	defer db.CloseDB()

	if err := telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev"); err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}

	store := db.TicketStore{}
	notif := &notifier.Notifier{
		Store:       store,
		Sender:      telegram_api.Client,
		AdminChatID: cfg.AdminChatID,
		MapFile:     cfg.MapFile,
	}

	// Разовый проход рассылки (режим для cron): сервис не поднимается.
	if len(os.Args) > 1 && os.Args[1] == "notify" {
		runNotifyOnce(notif)
		return
	}

	replies := &handlers.ReplyHandler{
		AdminChatID: cfg.AdminChatID,
		Store:       store,
		Bot:         telegram_api.Client,
		MapFile:     cfg.MapFile,
	}

	// --- Настройка роутера и Middleware ---
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Token", "X-Telegram-Bot-Api-Secret-Token"},
		MaxAge:         300,
	}))

	api.SetupRoutes(apiRouter, api.ApiDependencies{
		Config:   cfg,
		Replies:  replies,
		Notifier: notif,
	})

	// Плановая рассылка внутри сервиса. NOTIFY_INTERVAL_SECONDS=0 отключает
	// (тогда рассылку гоняет cron через режим notify или POST /api/notifier/run).
	if cfg.NotifyIntervalSeconds > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			log.Fatalf("Критическая ошибка: не удалось создать планировщик: %v", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Duration(cfg.NotifyIntervalSeconds)*time.Second),
			gocron.NewTask(func() {
				sent, errRun := notif.Run()
				if errRun != nil {
					log.Printf("Плановый проход рассылки завершился ошибкой: %v", errRun)
					return
				}
				if sent > 0 {
					log.Printf("Плановый проход рассылки: отправлено оповещений: %d", sent)
				}
			}),
		)
		if err != nil {
			log.Fatalf("Критическая ошибка: не удалось запланировать рассылку: %v", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				log.Printf("Ошибка остановки планировщика: %v", err)
			}
		}()
		log.Printf("Плановая рассылка каждые %d сек.", cfg.NotifyIntervalSeconds)
	}

	log.Printf("Запуск HTTP-сервера на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, apiRouter); err != nil {
		log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
	}
}

// runNotifyOnce — построчный вывод прогресса в stdout, как у ручного запуска
// из консоли или cron-лога.
func runNotifyOnce(notif *notifier.Notifier) {
	fmt.Println("=== Ticket Scan ===")
	fmt.Printf("Run at: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	sent, err := notif.Run()
	if err != nil {
		log.Fatalf("Критическая ошибка: проход рассылки не выполнен: %v", err)
	}

	fmt.Printf("\nAlerts sent: %d\n", sent)
	fmt.Println("Done.")
}
