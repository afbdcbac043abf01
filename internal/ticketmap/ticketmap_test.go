package ticketmap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	m := Load(filepath.Join(t.TempDir(), "map.json"))
	if m.Len() != 0 {
		t.Fatalf("ожидалась пустая карта, записей: %d", m.Len())
	}
	if _, ok := m.TicketFor(100500); ok {
		t.Fatal("TicketFor не должен находить записи в пустой карте")
	}
	if m.IsAlerted(42, "initial") {
		t.Fatal("IsAlerted не должен срабатывать на пустой карте")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := Load(path)
	if m.Len() != 0 {
		t.Fatalf("битый файл должен давать пустую карту, записей: %d", m.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")

	m := Load(path)
	m.RecordSent(100500, 42)
	m.MarkAlerted(42, "initial")
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := Load(path)
	ticketID, ok := reloaded.TicketFor(100500)
	if !ok || ticketID != 42 {
		t.Fatalf("TicketFor(100500) = (%d, %v), ожидалось (42, true)", ticketID, ok)
	}
	if !reloaded.IsAlerted(42, "initial") {
		t.Fatal("отметка alerted_42_initial потеряна после перезагрузки")
	}
	if reloaded.IsAlerted(42, "7") {
		t.Fatal("IsAlerted сработал для другого сообщения той же заявки")
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")

	m := Load(path)
	m.RecordSent(100500, 42)
	m.MarkAlerted(42, "initial")
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("файл карты не является валидным JSON: %v", err)
	}
	if got, ok := raw["100500"].(float64); !ok || got != 42 {
		t.Fatalf(`raw["100500"] = %v, ожидалось 42`, raw["100500"])
	}
	if got, ok := raw["alerted_42_initial"].(bool); !ok || !got {
		t.Fatalf(`raw["alerted_42_initial"] = %v, ожидалось true`, raw["alerted_42_initial"])
	}
}

func TestSavePreservesLoadedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")

	m := Load(path)
	m.RecordSent(100500, 42)
	m.MarkAlerted(42, "initial")
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	// Новый проход добавляет записи по другой заявке; прежние отметки
	// должны пережить полную перезапись файла.
	m2 := Load(path)
	m2.RecordSent(100501, 43)
	m2.MarkAlerted(43, "7")
	if err := m2.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded := Load(path)
	if !reloaded.IsAlerted(42, "initial") {
		t.Fatal("отметка первой заявки потеряна при перезаписи карты")
	}
	if !reloaded.IsAlerted(43, "7") {
		t.Fatal("отметка второй заявки не сохранена")
	}
	if reloaded.Len() != 4 {
		t.Fatalf("записей: %d, ожидалось 4", reloaded.Len())
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")

	m := Load(path)
	m.RecordSent(1, 1)
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("временный файл не удален после сохранения")
	}
}
