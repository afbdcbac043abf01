// Файл: internal/formatters/message_formatters.go
package formatters

import (
	"fmt"
	"strings"

	"ticketbridge/internal/models"
	"ticketbridge/internal/utils"
)

// FormatTicketAlert собирает текст оповещения о заявке (Telegram Markdown).
// Тема, имя, email и текст клиента экранируются, чтобы разметка в
// пользовательском контенте не ломала сообщение и не скрывала оповещение.
func FormatTicketAlert(t models.TicketAlert) string {
	var b strings.Builder
	b.WriteString("📨 *New Support Ticket*\n\n")
	fmt.Fprintf(&b, "*Ticket ID:* `%d`\n", t.ID)
	fmt.Fprintf(&b, "*User:* %s\n", utils.EscapeTelegramMarkdown(t.RequesterName))
	fmt.Fprintf(&b, "*Email:* %s\n", utils.EscapeTelegramMarkdown(t.RequesterEmail))
	fmt.Fprintf(&b, "*Subject:* %s\n\n", utils.EscapeTelegramMarkdown(t.Subject))
	fmt.Fprintf(&b, "*Latest Message:*\n%s\n\n", utils.EscapeTelegramMarkdown(t.LatestBody()))
	b.WriteString("👉 Swipe to reply")
	return b.String()
}

// FormatReplyConfirmation — текст подтверждения админу после сохранения ответа.
func FormatReplyConfirmation(ticketID int64, text string) string {
	return fmt.Sprintf("✅ Reply sent to Ticket #%d\n\n%s", ticketID, text)
}
