// Package wrap breaks message text into a bounded number of display lines.
//
// Explicit newlines always split. A segment longer than the character
// budget is wrapped greedily on single spaces. A word longer than the
// budget gets a line of its own and is never split. Lines beyond the line
// budget are dropped without error.
//
// Widths are counted in characters (Unicode code points).
package wrap

import (
	"strings"
	"unicode/utf8"
)

// Lines wraps text to at most maxChars characters per line and returns at
// most maxLines lines. Non-positive budgets yield no lines.
func Lines(text string, maxChars, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	lines := All(text, maxChars)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// All wraps text to maxChars characters per line with no line limit.
func All(text string, maxChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	var lines []string
	for _, seg := range strings.Split(text, "\n") {
		lines = appendSegment(lines, seg, maxChars)
	}
	return lines
}

// Truncated reports whether Lines would drop content from text.
func Truncated(text string, maxChars, maxLines int) bool {
	return len(All(text, maxChars)) > maxLines
}

func appendSegment(lines []string, seg string, maxChars int) []string {
	if utf8.RuneCountInString(seg) <= maxChars {
		return append(lines, seg)
	}

	var cur string
	curLen := 0
	for _, word := range strings.Split(seg, " ") {
		n := utf8.RuneCountInString(word)
		switch {
		case cur == "":
			cur, curLen = word, n
		case curLen+1+n <= maxChars:
			cur += " " + word
			curLen += 1 + n
		default:
			lines = append(lines, cur)
			cur, curLen = word, n
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
