// Файл: internal/utils/markdown.go
package utils

import "strings"

// EscapeTelegramMarkdown экранирует специальные символы для Telegram Markdown
// (старый стиль). Пользовательский контент из заявок проходит через эту
// функцию перед подстановкой в текст сообщения.
func EscapeTelegramMarkdown(text string) string {
	var replacer = strings.NewReplacer(
		"_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[",
	)
	return replacer.Replace(text)
}
