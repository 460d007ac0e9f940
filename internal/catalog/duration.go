package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// durationPattern matches a number followed by a recognized human time
// unit, including the Dutch spellings many source sites use.
var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(minutes|minuten|minute|min|hours|uur|uren|hour|h)`)

var minuteUnits = map[string]bool{
	"minutes": true,
	"minuten": true,
	"minute":  true,
	"min":     true,
}

// NeedsConversion reports whether text contains a human-readable time
// expression that can be rewritten as an ISO 8601 duration token.
func NeedsConversion(text string) bool {
	return durationPattern.MatchString(text)
}

// ToDuration rewrites the first recognized time expression in text as an
// ISO 8601 duration (PT{n}M or PT{n}H). When nothing matches, the input
// is returned unchanged and ok is false; malformed duration text must
// never abort a save, so callers log the miss and move on.
func ToDuration(text string) (converted string, ok bool) {
	match := durationPattern.FindStringSubmatch(text)
	if match == nil {
		return text, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return text, false
	}
	if minuteUnits[strings.ToLower(match[2])] {
		return "PT" + strconv.Itoa(value) + "M", true
	}
	return "PT" + strconv.Itoa(value) + "H", true
}
