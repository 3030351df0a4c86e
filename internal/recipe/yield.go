package recipe

import (
	"regexp"
	"strconv"
)

const servingsTextMax = 32

var digitsPattern = regexp.MustCompile(`\d+`)

// Servings is a yield split into a count and its display text.
type Servings struct {
	Count *int
	Text  string
}

// ParseServings takes the first run of digits in a free-text yield as the
// serving count and hard-truncates the original text for display. The two
// results are independent: the count may come from beyond the truncation point.
func ParseServings(yield string) Servings {
	s := Servings{Text: Truncate(yield, servingsTextMax)}
	if m := digitsPattern.FindString(yield); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			s.Count = &n
		}
	}
	return s
}

// Truncate cuts s to at most n runes, without an ellipsis.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
