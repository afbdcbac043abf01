// Файл: internal/handlers/reply_handler.go
package handlers

import (
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"ticketbridge/internal/formatters"
	"ticketbridge/internal/ticketmap"
)

// TicketWriter — операции системы заявок, нужные при сохранении ответа админа.
type TicketWriter interface {
	AppendAdminReply(ticketID int64, text string) (int64, error)
	MarkAnswered(ticketID int64) error
	MarkCustomerMessagesRead(ticketID int64) error
}

// Confirmer отправляет админу подтверждение без гарантии доставки.
type Confirmer interface {
	SendConfirmation(chatID int64, text string)
}

// ReplyHandler обрабатывает входящие обновления Telegram: ответ админа на
// оповещение сохраняется в систему заявок, сама заявка закрывается ответом.
type ReplyHandler struct {
	AdminChatID int64
	Store       TicketWriter
	Bot         Confirmer
	MapFile     string
}

// HandleUpdate разбирает одно обновление. Невалидные варианты (чужой чат,
// не ответ, пустой текст, незнакомый message_id) молча игнорируются:
// подтверждение доставки Telegram получает на уровне HTTP в любом случае.
func (h *ReplyHandler) HandleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if msg.Chat.ID != h.AdminChatID {
		log.Printf("HandleUpdate: сообщение из чужого чата %d проигнорировано.", msg.Chat.ID)
		return
	}
	if msg.ReplyToMessage == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	m := ticketmap.Load(h.MapFile)
	ticketID, ok := m.TicketFor(msg.ReplyToMessage.MessageID)
	if !ok {
		log.Printf("HandleUpdate: message_id %d не найден в карте соответствий.", msg.ReplyToMessage.MessageID)
		return
	}

	if _, err := h.Store.AppendAdminReply(ticketID, text); err != nil {
		// Без сохраненного ответа статус заявки менять нельзя.
		log.Printf("HandleUpdate: ответ по заявке #%d не сохранен: %v", ticketID, err)
		return
	}
	if err := h.Store.MarkAnswered(ticketID); err != nil {
		log.Printf("HandleUpdate: статус заявки #%d не обновлен: %v", ticketID, err)
	}
	if err := h.Store.MarkCustomerMessagesRead(ticketID); err != nil {
		log.Printf("HandleUpdate: сообщения клиента по заявке #%d не отмечены прочитанными: %v", ticketID, err)
	}

	h.Bot.SendConfirmation(h.AdminChatID, formatters.FormatReplyConfirmation(ticketID, text))
}
