// Package formatter turns free-running generator output into one bullet per point.
package formatter

import (
	"strings"
	"unicode/utf8"
)

// Bullet is the canonical prefix of every formatted point.
const Bullet = "• "

// markers are the glyphs that open a new point.
var markers = []rune{'•', '-', '*'}

// Format splits raw into points. Blank lines are dropped, a line whose first
// non-space character is a marker starts a new point, and any other line is
// appended to the current point with a single space. Text before the first
// marker forms the first point. Every returned point starts with Bullet.
//
// Format is idempotent: Format(Join(Format(s))) equals Format(s).
func Format(raw string) []string {
	points := []string{}
	current := ""

	flush := func() {
		if current != "" {
			points = append(points, current)
			current = ""
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := cutMarker(line); ok {
			flush()
			current = Bullet + rest
			continue
		}

		switch current {
		case "":
			current = Bullet + line
		case Bullet:
			current += line
		default:
			current += " " + line
		}
	}
	flush()

	return points
}

// Join renders points for display, one per line.
func Join(points []string) string {
	return strings.Join(points, "\n")
}

// cutMarker strips a leading marker and the whitespace after it.
func cutMarker(line string) (string, bool) {
	r, size := utf8.DecodeRuneInString(line)
	for _, m := range markers {
		if r == m {
			return strings.TrimLeft(line[size:], " \t"), true
		}
	}
	return "", false
}
