package llm

import "strings"

// SanitizeTitle normalizes raw model output into a usable album title:
// quotes stripped, whitespace trimmed, capped at 50 characters. Anything
// shorter than 3 characters falls back to FallbackTitle.
func SanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.ReplaceAll(title, `"`, "")
	title = strings.ReplaceAll(title, "'", "")
	title = strings.TrimSpace(title)

	// Length bounds are in characters, not bytes; capping must not cut a
	// multi-byte rune in half.
	runes := []rune(title)
	if len(runes) < minTitleLength {
		return FallbackTitle
	}
	if len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return title
}
