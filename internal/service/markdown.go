package service

import "strings"

// markdownV2Escapes is the punctuation Telegram requires to be escaped in
// MarkdownV2 text.
const markdownV2Escapes = "_*[]()~`>#+-=|{}.!"

// escapeMarkdownV2 backslash-escapes the reserved MarkdownV2 punctuation so
// arbitrary words and hints can be embedded in formatted messages.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownV2Escapes, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
