// Файл: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config хранит все конфигурационные параметры приложения.
// Учетные данные и идентификаторы передаются компонентам явно,
// глобальных настроек нет.
type Config struct {
	TelegramToken string
	AdminChatID   int64
	WebhookSecret string
	AdminAPIToken string
	DatabaseURL   string
	AppEnv        string
	Port          string

	// Файл карты соответствий message_id -> ticket_id.
	MapFile string

	// Интервал плановой рассылки в сервисном режиме. 0 отключает.
	NotifyIntervalSeconds int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		WebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
		AdminAPIToken: os.Getenv("ADMIN_API_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AppEnv:        os.Getenv("ENV"),
		Port:          os.Getenv("PORT"),
		MapFile:       os.Getenv("TICKET_MAP_FILE"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_APITOKEN не установлен")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	var err error
	cfg.AdminChatID, err = strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать ADMIN_CHAT_ID: %v", err)
	}

	if cfg.MapFile == "" {
		cfg.MapFile = "telegram_ticket_map.json"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	intervalStr := os.Getenv("NOTIFY_INTERVAL_SECONDS")
	if intervalStr == "" {
		cfg.NotifyIntervalSeconds = 300
	} else {
		interval, errParse := strconv.Atoi(intervalStr)
		if errParse != nil || interval < 0 {
			log.Printf("Предупреждение: некорректное значение NOTIFY_INTERVAL_SECONDS ('%s'): %v. Используется значение по умолчанию 300.", intervalStr, errParse)
			cfg.NotifyIntervalSeconds = 300
		} else {
			cfg.NotifyIntervalSeconds = interval
		}
	}

	parsedURL, parseErr := url.Parse(cfg.DatabaseURL)
	if parseErr != nil {
		return nil, fmt.Errorf("ошибка парсинга DATABASE_URL: %v", parseErr)
	}
	cfg.DBHost = parsedURL.Hostname()
	cfg.DBPort = parsedURL.Port()
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	cfg.DBUser = parsedURL.User.Username()
	cfg.DBPassword, _ = parsedURL.User.Password()
	cfg.DBName = strings.TrimPrefix(parsedURL.Path, "/")

	if cfg.WebhookSecret == "" {
		log.Println("Предупреждение: TELEGRAM_WEBHOOK_SECRET не установлен. Вебхук принимает запросы без проверки отправителя.")
	}
	if cfg.AdminAPIToken == "" {
		log.Println("Предупреждение: ADMIN_API_TOKEN не установлен. Эндпоинты /api доступны без авторизации.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
