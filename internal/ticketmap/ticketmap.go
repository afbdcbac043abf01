// Файл: internal/ticketmap/ticketmap.go
package ticketmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const alertedPrefix = "alerted_"

// Map — персистентная карта соответствий между исходящими сообщениями
// Telegram и заявками, плюс отметки об уже отправленных оповещениях.
//
// Формат файла — плоский JSON-объект: ключ-число ("100500") хранит id заявки,
// ключ "alerted_<ticketId>_<msgIdOrInitial>" хранит true. Карта читается
// целиком при загрузке и целиком перезаписывается при сохранении; защиты от
// одновременной записи двумя процессами нет.
type Map struct {
	path    string
	tickets map[int]int64
	alerted map[string]bool
}

// Load читает карту из файла. Отсутствующий или битый файл не является
// ошибкой для вызывающего: возвращается пустая карта.
func Load(path string) *Map {
	m := &Map{
		path:    path,
		tickets: make(map[int]int64),
		alerted: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("ticketmap: не удалось прочитать %s: %v. Используется пустая карта.", path, err)
		}
		return m
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		log.Printf("ticketmap: файл %s поврежден: %v. Используется пустая карта.", path, err)
		return m
	}

	for key, value := range raw {
		if strings.HasPrefix(key, alertedPrefix) {
			if flag, ok := value.(bool); ok && flag {
				m.alerted[strings.TrimPrefix(key, alertedPrefix)] = true
			}
			continue
		}
		messageID, errKey := strconv.Atoi(key)
		if errKey != nil {
			continue
		}
		num, ok := value.(json.Number)
		if !ok {
			continue
		}
		ticketID, errVal := num.Int64()
		if errVal != nil {
			continue
		}
		m.tickets[messageID] = ticketID
	}
	return m
}

// TicketFor возвращает id заявки, к которой относится исходящее сообщение.
func (m *Map) TicketFor(messageID int) (int64, bool) {
	ticketID, ok := m.tickets[messageID]
	return ticketID, ok
}

// IsAlerted сообщает, отправлялось ли уже оповещение по этому состоянию заявки.
func (m *Map) IsAlerted(ticketID int64, messageKey string) bool {
	return m.alerted[alertKey(ticketID, messageKey)]
}

// RecordSent запоминает соответствие отправленного сообщения и заявки.
// Изменение остается в памяти до вызова Save.
func (m *Map) RecordSent(messageID int, ticketID int64) {
	m.tickets[messageID] = ticketID
}

// MarkAlerted ставит отметку дедупликации для состояния заявки.
func (m *Map) MarkAlerted(ticketID int64, messageKey string) {
	m.alerted[alertKey(ticketID, messageKey)] = true
}

// Len возвращает общее число записей карты.
func (m *Map) Len() int {
	return len(m.tickets) + len(m.alerted)
}

// Save атомарно перезаписывает файл целиком (tmp + rename). Записи не
// вычищаются: карта только растет.
func (m *Map) Save() error {
	flat := make(map[string]interface{}, m.Len())
	for messageID, ticketID := range m.tickets {
		flat[strconv.Itoa(messageID)] = ticketID
	}
	for key := range m.alerted {
		flat[alertedPrefix+key] = true
	}

	data, err := json.MarshalIndent(flat, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

func alertKey(ticketID int64, messageKey string) string {
	return fmt.Sprintf("%d_%s", ticketID, messageKey)
}
