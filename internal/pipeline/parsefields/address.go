package parsefields

import (
	"regexp"
	"strings"
)

const (
	anchorCustomerAddress = "Customer Address"
	markerUndelivered     = "If undelivered"
)

var (
	// Anchor line, optional blank lines, then the name line.
	reName = regexp.MustCompile(anchorCustomerAddress + `[\s\p{Zs}]*\n([^\n]+)`)
	// Same anchor, consuming the name line; the address starts right after it.
	reAddressStart = regexp.MustCompile(anchorCustomerAddress + `[\s\p{Zs}]*\n[^\n]+\n`)
	// First six consecutive digits anywhere, even inside a longer number.
	rePincode = regexp.MustCompile(`\d{6}`)
)

func extractName(text string) string {
	m := reName.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractAddressBlock flattens the lines between the name and the
// "If undelivered" return notice into one comma-joined string.
func extractAddressBlock(text string) string {
	loc := reAddressStart.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	var parts []string
	for _, line := range strings.Split(text[loc[1]:], "\n") {
		if strings.Contains(line, markerUndelivered) {
			break
		}
		parts = append(parts, strings.TrimSpace(line))
	}
	return strings.Join(parts, ", ")
}

func extractPincode(address string) string {
	return rePincode.FindString(address)
}

// extractCityState tries the "City, State, <pincode>" run first and falls back to
// the comma-separated position of the segments. fallback reports whether the
// positional branch was taken.
func extractCityState(address, pincode string) (city, state string, fallback bool) {
	if city, state, ok := matchCityState(address, pincode); ok {
		return city, state, false
	}
	parts := strings.Split(address, ",")
	if len(parts) > 2 {
		city = strings.TrimSpace(parts[len(parts)-3])
	}
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[len(parts)-2])
	}
	return city, state, true
}

func matchCityState(address, pincode string) (string, string, bool) {
	if pincode == "" {
		return "", "", false
	}
	// pincode is matched literally, never as a pattern fragment.
	re, err := regexp.Compile(`([A-Za-z ]+), ([A-Za-z ]+), ` + regexp.QuoteMeta(pincode))
	if err != nil {
		return "", "", false
	}
	m := re.FindStringSubmatch(address)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
