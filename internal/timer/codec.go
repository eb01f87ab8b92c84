package timer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// markerPattern matches "<verb> at <timestamp>" anywhere in a line. The
// timestamp accepts both the canonical RFC3339 form written by Encode and
// the space-separated form found in older logs.
var markerPattern = regexp.MustCompile(
	`(?i)\b(paused|resumed|stopped)\s+at\s+` +
		`(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)`,
)

// timestampLayouts are tried in order when parsing a matched timestamp.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
}

// Decode parses an event log blob into its ordered events.
//
// Lines without a recognisable marker (such as the creation note written at
// start) are skipped, as are markers whose timestamp does not parse. Decode
// never fails: a damaged line drops only that event.
func Decode(blob string) []Event {
	if strings.TrimSpace(blob) == "" {
		return nil
	}

	var events []Event
	for _, line := range strings.Split(blob, "\n") {
		for _, m := range markerPattern.FindAllStringSubmatch(line, -1) {
			at, ok := parseTimestamp(m[2])
			if !ok {
				continue
			}
			events = append(events, Event{Kind: Kind(strings.ToLower(m[1])), At: at})
		}
	}
	return events
}

// Encode appends ev to the existing blob and returns the new blob. Prior
// content is never modified.
func Encode(existing string, ev Event) string {
	line := FormatLine(ev)
	switch {
	case existing == "":
		return line
	case strings.HasSuffix(existing, "\n"):
		return existing + line
	default:
		return existing + "\n" + line
	}
}

// FormatLine renders ev in its canonical log form, e.g.
// "Paused at 2024-03-01T09:30:00Z".
func FormatLine(ev Event) string {
	verb := string(ev.Kind)
	if verb != "" {
		verb = strings.ToUpper(verb[:1]) + verb[1:]
	}
	return fmt.Sprintf("%s at %s", verb, ev.At.UTC().Format(time.RFC3339Nano))
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
