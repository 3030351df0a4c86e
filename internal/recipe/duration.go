package recipe

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

type durationParts struct {
	hours, minutes, seconds int
}

func parseDuration(s string) (durationParts, bool) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return durationParts{}, false
	}
	return durationParts{
		hours:   atoiOrZero(m[1]),
		minutes: atoiOrZero(m[2]),
		seconds: atoiOrZero(m[3]),
	}, true
}

// DurationMinutes converts an ISO-8601 duration such as "PT1H30M" to whole minutes.
// Seconds are rounded to the nearest minute. It returns nil for empty or
// unparseable input, and also for a total of zero: a zero duration is treated
// as "no timing information" rather than an explicit zero.
func DurationMinutes(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	p, ok := parseDuration(s)
	if !ok {
		return nil
	}
	total := p.hours*60 + p.minutes + int(math.Floor(float64(p.seconds)/60+0.5))
	if total == 0 {
		return nil
	}
	return &total
}

// HumanDuration renders an ISO-8601 duration as "2 hours 30 minutes".
// Input that does not parse, or that renders to nothing, is returned unchanged.
func HumanDuration(s string) string {
	if s == "" {
		return ""
	}
	p, ok := parseDuration(s)
	if !ok {
		return s
	}

	var parts []string
	if p.hours > 0 {
		parts = append(parts, plural(p.hours, "hour"))
	}
	if p.minutes > 0 {
		parts = append(parts, plural(p.minutes, "minute"))
	}
	if len(parts) == 0 {
		return s
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
