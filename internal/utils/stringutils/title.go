// Package stringutils holds small text helpers shared by the domain services.
package stringutils

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultTitleLength is the rune budget for generated conversation titles.
const DefaultTitleLength = 60

var (
	urlPattern          = regexp.MustCompile(`(?i)(https?://|ftp://|www\.)[^\s]+`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	multiSpacePattern   = regexp.MustCompile(`\s+`)
)

// SanitizeTitleContent strips links and markup from content and collapses
// whitespace so the first user message can double as a title.
func SanitizeTitleContent(content string) string {
	content = markdownLinkPattern.ReplaceAllString(content, "$1")
	content = urlPattern.ReplaceAllString(content, "")

	var b strings.Builder
	for _, r := range content {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(".,!?-'/#:", r):
			b.WriteRune(r)
		}
	}

	content = multiSpacePattern.ReplaceAllString(b.String(), " ")
	content = strings.TrimSpace(content)
	return strings.TrimRight(content, " .,!?-'/:")
}

// TruncateTitle shortens title to at most maxRunes runes, preferring a word
// boundary and marking the cut with an ellipsis.
func TruncateTitle(title string, maxRunes int) string {
	runes := []rune(title)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return title
	}

	const ellipsis = "..."
	limit := maxRunes - len(ellipsis)
	if limit <= 0 {
		return string(runes[:maxRunes])
	}

	cut := string(runes[:limit])
	if space := strings.LastIndex(cut, " "); space > len(cut)/2 {
		cut = cut[:space]
	}
	return strings.TrimRight(cut, " ") + ellipsis
}

// GenerateTitle derives a conversation title from the opening message. It
// returns an empty string when nothing printable remains.
func GenerateTitle(content string, maxRunes int) string {
	sanitized := SanitizeTitleContent(content)
	if sanitized == "" {
		return ""
	}
	return TruncateTitle(sanitized, maxRunes)
}
