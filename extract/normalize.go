package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reSpace = regexp.MustCompile(`\s+`)

// collapseSpace folds runs of whitespace, including newlines the flattened
// text introduces, into single spaces and trims the ends.
func collapseSpace(s string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

// parseCount parses a rendered count like "1,234". Dot-grouped thousands
// ("12.345") from non-English locales are accepted on a second pass, so a
// plain decimal would be misread; rendered counts are always integers.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	s = strings.ReplaceAll(s, ".", "")
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return 0
}

// percentOf formats part's share of total to one decimal place with a
// trailing percent sign. Empty when the total is unknown.
func percentOf(part, total int) string {
	if total <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
