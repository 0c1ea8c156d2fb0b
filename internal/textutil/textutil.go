package textutil

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeSlack escapes the three characters Slack treats as control
// characters in mrkdwn and plain text.
func EscapeSlack(text string) string {
	return slackEscaper.Replace(text)
}

// TruncateText truncates text to a maximum number of runes (Unicode-safe).
// If the text exceeds maxLength runes, it is truncated with "..." appended.
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string([]rune(text)[:max(maxLength, 0)])
	}
	return string([]rune(text)[:maxLength-3]) + "..."
}

// TruncateLines joins lines with "\n" within maxLength runes. When not all
// lines fit, trailing lines are replaced by a "…and N more" line.
func TruncateLines(lines []string, maxLength int) string {
	full := strings.Join(lines, "\n")
	if utf8.RuneCountInString(full) <= maxLength {
		return full
	}
	for keep := len(lines) - 1; keep > 0; keep-- {
		out := strings.Join(lines[:keep], "\n") + "\n…and " + strconv.Itoa(len(lines)-keep) + " more"
		if utf8.RuneCountInString(out) <= maxLength {
			return out
		}
	}
	return TruncateText(full, maxLength)
}
