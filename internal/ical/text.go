package ical

import (
	"strings"
	"unicode/utf8"
)

// textEscaper rewrites TEXT property values per RFC5545 3.3.11:
// backslash first so later escapes are not double-escaped, then literal
// newlines to the two-character sequence \n, then semicolon and comma.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	";", `\;`,
	",", `\,`,
)

// escapeText escapes a TEXT value and trims surrounding whitespace.
// Escaping always happens before line folding.
func escapeText(text string) string {
	return strings.TrimSpace(textEscaper.Replace(text))
}

// Folding widths: the first physical line carries up to 75 octets; every
// continuation line is a single space plus up to 74 octets, keeping all
// physical lines at or under 75 octets.
const (
	foldWidth         = 75
	continuationWidth = foldWidth - 1
)

// foldLine folds one content line per RFC5545 3.1. The input must be the
// complete, already-escaped line including its property prefix. Folds
// land on rune boundaries so multi-byte UTF-8 is never split across
// physical lines.
func foldLine(line string) string {
	if len(line) <= foldWidth {
		return line
	}
	var b strings.Builder
	cut := foldCut(line, foldWidth)
	b.WriteString(line[:cut])
	rest := line[cut:]
	for len(rest) > continuationWidth {
		cut = foldCut(rest, continuationWidth)
		b.WriteString("\r\n ")
		b.WriteString(rest[:cut])
		rest = rest[cut:]
	}
	if len(rest) > 0 {
		b.WriteString("\r\n ")
		b.WriteString(rest)
	}
	return b.String()
}

// foldCut backs the byte limit off to the nearest rune start.
func foldCut(s string, limit int) int {
	if len(s) <= limit {
		return len(s)
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return limit
}
