// Файл: internal/notifier/notifier.go
package notifier

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"ticketbridge/internal/formatters"
	"ticketbridge/internal/models"
	"ticketbridge/internal/ticketmap"
)

// TicketSource — источник заявок, требующих внимания админа.
type TicketSource interface {
	TicketsNeedingAttention() ([]models.TicketAlert, error)
}

// AlertSender отправляет оповещение и возвращает message_id.
type AlertSender interface {
	SendTicketAlert(chatID int64, text string) (int, error)
}

// Notifier выполняет один проход рассылки: выбирает заявки, отправляет
// оповещения с дедупликацией по (заявка, последнее сообщение) и фиксирует
// соответствия в карте.
type Notifier struct {
	Store       TicketSource
	Sender      AlertSender
	AdminChatID int64
	MapFile     string
}

// Run обрабатывает заявки строго по порядку выборки, каждую целиком:
// проверка отметки -> форматирование -> отправка -> запись в карту.
// Ошибка отправки по одной заявке не прерывает проход — отметка не ставится,
// и заявка будет повторена на следующем запуске. Ошибка выборки фатальна.
// Возвращает число отправленных оповещений.
func (n *Notifier) Run() (int, error) {
	runID := uuid.New().String()[:8]

	m := ticketmap.Load(n.MapFile)

	tickets, err := n.Store.TicketsNeedingAttention()
	if err != nil {
		return 0, fmt.Errorf("выборка заявок: %w", err)
	}
	log.Printf("[scan %s] Заявок, требующих внимания: %d", runID, len(tickets))

	sent := 0
	for _, t := range tickets {
		key := t.MessageKey()
		if m.IsAlerted(t.ID, key) {
			continue
		}

		messageID, errSend := n.Sender.SendTicketAlert(n.AdminChatID, formatters.FormatTicketAlert(t))
		if errSend != nil {
			log.Printf("[scan %s] Оповещение по заявке #%d не отправлено: %v", runID, t.ID, errSend)
			continue
		}

		m.RecordSent(messageID, t.ID)
		m.MarkAlerted(t.ID, key)
		sent++
		log.Printf("[scan %s] Оповещение по заявке #%d отправлено (message_id=%d).", runID, t.ID, messageID)
	}

	if err := m.Save(); err != nil {
		// Без сохраненной карты следующий проход разошлет дубликаты.
		return sent, fmt.Errorf("сохранение карты соответствий: %w", err)
	}
	return sent, nil
}
