package scripture

import "strings"

// Ellipsis marks text that was cut short by Truncate.
const Ellipsis = "..."

// Truncate limits text to maxWords whitespace-separated words. Longer text
// is cut to exactly maxWords words joined by single spaces, followed by
// Ellipsis. Text within the limit is returned unmodified.
func Truncate(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + Ellipsis
}
