// Файл: internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/xuri/excelize/v2"
)

// jsonResponse - вспомогательная структура для стандартного ответа API.
type jsonResponse struct {
	Status  string      `json:"status"` // "success" или "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp jsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("writeJSON: ошибка сериализации ответа: %v", err)
	}
}

// HealthHandler — проверка живости сервиса.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jsonResponse{Status: "success", Message: "ok"})
}

// WebhookHandler принимает обновления Telegram. Ответ всегда 200 "OK",
// что бы ни случилось внутри: иначе Telegram начнет ретраить доставку,
// а повторы этим сервисом не обрабатываются.
func WebhookHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprint(w, "OK")
		}()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Printf("WebhookHandler: ошибка чтения тела запроса: %v", err)
			return
		}
		var update tgbotapi.Update
		if err := json.Unmarshal(body, &update); err != nil {
			log.Printf("WebhookHandler: не удалось разобрать обновление: %v", err)
			return
		}
		deps.Replies.HandleUpdate(update)
	}
}

// RunNotifierHandler запускает разовый проход рассылки по запросу.
func RunNotifierHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sent, err := deps.Notifier.Run()
		if err != nil {
			log.Printf("RunNotifierHandler: проход рассылки не выполнен: %v", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Status: "error", Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, jsonResponse{
			Status:  "success",
			Message: fmt.Sprintf("Alerts sent: %d", sent),
			Data:    map[string]int{"sent": sent},
		})
	}
}

// ExportTicketsHandler отдает Excel-отчет по заявкам, ожидающим ответа.
func ExportTicketsHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickets, err := deps.Notifier.Store.TicketsNeedingAttention()
		if err != nil {
			log.Printf("ExportTicketsHandler: ошибка получения заявок: %v", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Status: "error", Message: "не удалось получить данные заявок"})
			return
		}

		f := excelize.NewFile()
		sheetName := "Tickets"
		index, _ := f.NewSheet(sheetName)
		f.DeleteSheet("Sheet1")
		f.SetActiveSheet(index)

		headers := []string{"ID", "Subject", "Status", "User", "Email", "Latest Message"}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetName, cell, header)
		}

		for i, t := range tickets {
			row := i + 2
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Subject)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Status)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.RequesterName)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.RequesterEmail)
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.LatestBody())
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="tickets_needing_attention.xlsx"`)
		if err := f.Write(w); err != nil {
			log.Printf("ExportTicketsHandler: ошибка записи xlsx: %v", err)
		}
	}
}
