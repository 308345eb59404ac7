package golf

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseScore converts a golf-convention score token ("E", "+4", "-3", "2")
// into a signed integer relative to par. The upstream feed is unreliable, so
// this is total: empty, "E" and anything unparseable all come back as 0.
// Callers sort and aggregate on the result and must always get a number.
func ParseScore(token string) int {
	s := strings.TrimSpace(token)
	if s == "" || s == "E" {
		return 0
	}

	if strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0
		}
		return -n
	}

	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0
	}
	return n
}

// FormatScore renders a par-relative score for display: 0 is "E",
// over-par scores carry an explicit "+".
func FormatScore(score int) string {
	if score == 0 {
		return "E"
	}
	if score > 0 {
		return fmt.Sprintf("+%d", score)
	}
	return strconv.Itoa(score)
}

// PlayerID derives the display key used to dedupe and join players: the
// display name lower-cased with whitespace runs collapsed to underscores.
// It is deliberately not a durable identity, just a per-feed keying scheme.
func PlayerID(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}
