package parsefields

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reOrderNo   = regexp.MustCompile(`Order No\.[\s\p{Zs}]*([0-9A-Za-z_]+)`)
	reOrderDate = regexp.MustCompile(`Order Date[\s\p{Zs}]*([0-9.]+)`)
)

// amount markers, matched case-insensitively anywhere in a line.
var priceAnchors = []string{"gross amount", "total amount"}

func extractOrderNo(text string) string {
	return firstGroup(reOrderNo, text)
}

func extractOrderDate(text string) string {
	return firstGroup(reOrderDate, text)
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// extractDescription returns the line right after the first line starting with "description".
func extractDescription(lines []string) string {
	for i, line := range lines {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "description") {
			continue
		}
		if i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1])
		}
		return ""
	}
	return ""
}

// extractPrice returns, verbatim, the first non-blank line containing a digit
// after the first gross/total amount marker.
func extractPrice(lines []string) string {
	for i, line := range lines {
		if !hasPriceAnchor(line) {
			continue
		}
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) != "" && hasDigit(next) {
				return next
			}
		}
		return ""
	}
	return ""
}

func hasPriceAnchor(line string) bool {
	l := strings.ToLower(line)
	for _, a := range priceAnchors {
		if strings.Contains(l, a) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
