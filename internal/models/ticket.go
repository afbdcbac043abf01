// Файл: internal/models/ticket.go
package models

import (
	"database/sql"
	"strconv"
	"strings"
)

// TicketAlert — строка выборки заявок, требующих внимания админа:
// сама заявка, автор и последнее сообщение клиента (если есть).
type TicketAlert struct {
	ID              int64
	Subject         string
	Description     string
	Status          string
	RequesterEmail  string
	RequesterName   string
	LatestMessage   sql.NullString
	LatestMessageID sql.NullInt64
}

// LatestBody возвращает текст последнего сообщения клиента.
// Если сообщений по заявке еще нет, используется ее описание.
func (t TicketAlert) LatestBody() string {
	if t.LatestMessage.Valid && strings.TrimSpace(t.LatestMessage.String) != "" {
		return strings.TrimSpace(t.LatestMessage.String)
	}
	return strings.TrimSpace(t.Description)
}

// MessageKey — идентификатор последнего сообщения клиента для ключа
// дедупликации. "initial", пока сообщений нет.
func (t TicketAlert) MessageKey() string {
	if t.LatestMessageID.Valid {
		return strconv.FormatInt(t.LatestMessageID.Int64, 10)
	}
	return "initial"
}
