package ocr

import (
	"regexp"
	"strings"
)

var (
	reOrderNo  = regexp.MustCompile(`(?i)order no\.\s*\S`)
	reOrderDt  = regexp.MustCompile(`(?i)order date\s*[0-9]`)
	rePin      = regexp.MustCompile(`(?:^|\D)\d{6}(?:\D|$)`)
	reAmountLn = regexp.MustCompile(`(?i)(gross|total) amount`)
)

// heuristicConfidence scores how much the text looks like a shipping label:
// a base plus a boost for every anchor the field extractor relies on.
func heuristicConfidence(txt string) float32 {
	if strings.TrimSpace(txt) == "" {
		return 0
	}
	score := float32(0.1)
	if strings.Contains(txt, "Customer Address") {
		score += 0.3
	}
	if strings.Contains(txt, "If undelivered") {
		score += 0.1
	}
	if reOrderNo.MatchString(txt) {
		score += 0.15
	}
	if reOrderDt.MatchString(txt) {
		score += 0.1
	}
	if rePin.MatchString(txt) {
		score += 0.1
	}
	if reAmountLn.MatchString(txt) {
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
