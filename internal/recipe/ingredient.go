package recipe

import (
	"regexp"
	"strings"
)

var headerLeadIn = regexp.MustCompile(`(?i)^(for the\b.*:|sauce:|marinade:|dressing:)`)

// IsHeader reports whether an ingredient line is a section label such as
// "For the sauce:" rather than something to buy. It is a heuristic; a wrong
// answer is tolerated downstream.
func IsHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return headerLeadIn.MatchString(trimmed) || strings.HasSuffix(trimmed, ":")
}
