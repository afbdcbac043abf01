package handlers

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"ticketbridge/internal/ticketmap"
)

type fakeWriter struct {
	calls      []string
	replyTexts []string
	replyIDs   []int64
	answered   []int64
	read       []int64
	appendErr  error
}

func (f *fakeWriter) AppendAdminReply(ticketID int64, text string) (int64, error) {
	f.calls = append(f.calls, "append")
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.replyIDs = append(f.replyIDs, ticketID)
	f.replyTexts = append(f.replyTexts, text)
	return 1, nil
}

func (f *fakeWriter) MarkAnswered(ticketID int64) error {
	f.calls = append(f.calls, "answered")
	f.answered = append(f.answered, ticketID)
	return nil
}

func (f *fakeWriter) MarkCustomerMessagesRead(ticketID int64) error {
	f.calls = append(f.calls, "read")
	f.read = append(f.read, ticketID)
	return nil
}

type fakeConfirmer struct {
	chats []int64
	texts []string
}

func (f *fakeConfirmer) SendConfirmation(chatID int64, text string) {
	f.chats = append(f.chats, chatID)
	f.texts = append(f.texts, text)
}

const adminChatID int64 = 777

// mapWith готовит файл карты с соответствием messageID -> ticketID.
func mapWith(t *testing.T, messageID int, ticketID int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.json")
	m := ticketmap.Load(path)
	m.RecordSent(messageID, ticketID)
	m.MarkAlerted(ticketID, "initial")
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}
	return path
}

func replyUpdate(chatID int64, replyTo int, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID:      555,
		Chat:           tgbotapi.Chat{ID: chatID},
		Text:           text,
		ReplyToMessage: &tgbotapi.Message{MessageID: replyTo},
	}}
}

func newHandler(t *testing.T, writer *fakeWriter, confirmer *fakeConfirmer, mapFile string) *ReplyHandler {
	t.Helper()
	return &ReplyHandler{
		AdminChatID: adminChatID,
		Store:       writer,
		Bot:         confirmer,
		MapFile:     mapFile,
	}
}

func TestHandleUpdateSavesReply(t *testing.T) {
	writer := &fakeWriter{}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(replyUpdate(adminChatID, 1001, "Please reset your password"))

	if len(writer.replyTexts) != 1 || writer.replyTexts[0] != "Please reset your password" {
		t.Fatalf("ответ не сохранен: %v", writer.replyTexts)
	}
	if len(writer.replyIDs) != 1 || writer.replyIDs[0] != 42 {
		t.Fatalf("ответ привязан не к той заявке: %v", writer.replyIDs)
	}
	if len(writer.answered) != 1 || writer.answered[0] != 42 {
		t.Fatalf("заявка не переведена в answered: %v", writer.answered)
	}
	if len(writer.read) != 1 || writer.read[0] != 42 {
		t.Fatalf("сообщения клиента не отмечены прочитанными: %v", writer.read)
	}
	if got := strings.Join(writer.calls, ","); got != "append,answered,read" {
		t.Fatalf("нарушен порядок операций: %s", got)
	}
	if len(confirmer.texts) != 1 || !strings.Contains(confirmer.texts[0], "Ticket #42") {
		t.Fatalf("подтверждение не отправлено: %v", confirmer.texts)
	}
	if confirmer.chats[0] != adminChatID {
		t.Fatalf("подтверждение ушло не админу: %v", confirmer.chats)
	}
}

func TestHandleUpdateIgnoresForeignChat(t *testing.T) {
	writer := &fakeWriter{}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(replyUpdate(12345, 1001, "Please reset your password"))

	assertNoMutations(t, writer, confirmer)
}

func TestHandleUpdateIgnoresNonReply(t *testing.T) {
	writer := &fakeWriter{}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 556,
		Chat:      tgbotapi.Chat{ID: adminChatID},
		Text:      "just a message",
	}})

	assertNoMutations(t, writer, confirmer)
}

func TestHandleUpdateIgnoresEmptyText(t *testing.T) {
	writer := &fakeWriter{}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(replyUpdate(adminChatID, 1001, "   "))

	assertNoMutations(t, writer, confirmer)
}

func TestHandleUpdateIgnoresUnknownMapping(t *testing.T) {
	writer := &fakeWriter{}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(replyUpdate(adminChatID, 9999, "Please reset your password"))

	assertNoMutations(t, writer, confirmer)
}

func TestHandleUpdateIgnoresNonMessageUpdate(t *testing.T) {
	writer := &fakeWriter{}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(tgbotapi.Update{})

	assertNoMutations(t, writer, confirmer)
}

func TestHandleUpdateAppendFailureStopsSequence(t *testing.T) {
	writer := &fakeWriter{appendErr: errors.New("insert failed")}
	confirmer := &fakeConfirmer{}
	h := newHandler(t, writer, confirmer, mapWith(t, 1001, 42))

	h.HandleUpdate(replyUpdate(adminChatID, 1001, "Please reset your password"))

	if len(writer.answered) != 0 || len(writer.read) != 0 {
		t.Fatal("при несохраненном ответе статус заявки меняться не должен")
	}
	if len(confirmer.texts) != 0 {
		t.Fatal("подтверждение при ошибке сохранения отправляться не должно")
	}
}

func assertNoMutations(t *testing.T, writer *fakeWriter, confirmer *fakeConfirmer) {
	t.Helper()
	if len(writer.calls) != 0 {
		t.Fatalf("ожидалось отсутствие записей в БД, вызовы: %v", writer.calls)
	}
	if len(confirmer.texts) != 0 {
		t.Fatalf("ожидалось отсутствие подтверждений: %v", confirmer.texts)
	}
}
