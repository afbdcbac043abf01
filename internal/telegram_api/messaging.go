// Файл: internal/telegram_api/messaging.go
package telegram_api

import (
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// SendTicketAlert отправляет оповещение о заявке в чат админа. Разметка —
// Markdown, к сообщению прикладывается force_reply, чтобы ответ админа был
// структурно привязан именно к этому сообщению. Возвращает message_id
// отправленного сообщения.
func (bc *BotClient) SendTicketAlert(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}

	sent, err := bc.Send(msg)
	if err != nil {
		log.Printf("SendTicketAlert: ошибка отправки оповещения в чат %d: %v", chatID, err)
		return 0, err
	}
	return sent.MessageID, nil
}

// SendConfirmation отправляет подтверждение без гарантии доставки:
// ошибка логируется и не возвращается вызывающему.
func (bc *BotClient) SendConfirmation(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bc.Send(msg); err != nil {
		log.Printf("SendConfirmation: ошибка отправки подтверждения в чат %d: %v", chatID, err)
	}
}
