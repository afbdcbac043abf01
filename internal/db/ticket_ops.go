// Файл: internal/db/ticket_ops.go
package db

import (
	"log"

	"ticketbridge/internal/models"
)

// FindTicketsNeedingAttention выбирает заявки в статусах pending и
// customer-reply вместе с данными автора и последним сообщением клиента.
// Порядок — по времени последнего изменения, свежие первыми.
func FindTicketsNeedingAttention() ([]models.TicketAlert, error) {
	rows, err := DB.Query(`
        SELECT t.id, t.subject, t.description, t.status,
               gu.email,
               TRIM(gu.first_name || ' ' || gu.last_name) AS fullname,
               lm.message, lm.id
        FROM tickets t
        JOIN general_users gu ON gu.id = t.uid
        LEFT JOIN LATERAL (
            SELECT tm.id, tm.message
            FROM ticket_messages tm
            WHERE tm.ticket_id = t.id AND tm.support = 0
            ORDER BY tm.id DESC
            LIMIT 1
        ) lm ON TRUE
        WHERE t.status IN ('pending', 'customer-reply')
        ORDER BY t.changed DESC`)
	if err != nil {
		log.Printf("FindTicketsNeedingAttention: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tickets []models.TicketAlert
	for rows.Next() {
		var t models.TicketAlert
		if errScan := rows.Scan(
			&t.ID, &t.Subject, &t.Description, &t.Status,
			&t.RequesterEmail, &t.RequesterName,
			&t.LatestMessage, &t.LatestMessageID,
		); errScan != nil {
			log.Printf("FindTicketsNeedingAttention: ошибка сканирования строки: %v", errScan)
			return nil, errScan
		}
		tickets = append(tickets, t)
	}
	if err = rows.Err(); err != nil {
		log.Printf("FindTicketsNeedingAttention: ошибка после итерации по строкам: %v", err)
		return nil, err
	}
	return tickets, nil
}

// AppendAdminReply добавляет к заявке ответ от имени администратора.
// Сообщение сразу помечается прочитанным.
func AppendAdminReply(ticketID int64, text string) (int64, error) {
	var id int64
	err := DB.QueryRow(`
        INSERT INTO ticket_messages (ticket_id, uid, author, support, message, is_read, created, changed)
        VALUES ($1, 0, 'Admin', 1, $2, 1, NOW(), NOW())
        RETURNING id`, ticketID, text).Scan(&id)
	if err != nil {
		log.Printf("AppendAdminReply: ошибка добавления ответа к заявке #%d: %v", ticketID, err)
		return 0, err
	}
	log.Printf("Ответ #%d к заявке #%d сохранен.", id, ticketID)
	return id, nil
}

// MarkAnswered переводит заявку в статус answered и помечает ее
// просмотренной администратором.
func MarkAnswered(ticketID int64) error {
	_, err := DB.Exec(`
        UPDATE tickets
        SET status = 'answered',
            admin_read = 1,
            changed = NOW()
        WHERE id = $1`, ticketID)
	if err != nil {
		log.Printf("MarkAnswered: ошибка обновления статуса заявки #%d: %v", ticketID, err)
	}
	return err
}

// MarkCustomerMessagesRead помечает все сообщения клиента по заявке прочитанными.
func MarkCustomerMessagesRead(ticketID int64) error {
	_, err := DB.Exec(`
        UPDATE ticket_messages
        SET is_read = 1
        WHERE ticket_id = $1 AND support = 0`, ticketID)
	if err != nil {
		log.Printf("MarkCustomerMessagesRead: ошибка по заявке #%d: %v", ticketID, err)
	}
	return err
}

// TicketStore — адаптер пакета db для потребителей (notifier, handlers).
type TicketStore struct{}

func (TicketStore) TicketsNeedingAttention() ([]models.TicketAlert, error) {
	return FindTicketsNeedingAttention()
}

func (TicketStore) AppendAdminReply(ticketID int64, text string) (int64, error) {
	return AppendAdminReply(ticketID, text)
}

func (TicketStore) MarkAnswered(ticketID int64) error {
	return MarkAnswered(ticketID)
}

func (TicketStore) MarkCustomerMessagesRead(ticketID int64) error {
	return MarkCustomerMessagesRead(ticketID)
}
