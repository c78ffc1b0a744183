package order

import (
	"regexp"
	"strings"
)

var (
	phoneRE   = regexp.MustCompile(`\+?\d[\d\-\s]{7,}\d`)
	orderNoRE = regexp.MustCompile(`\b(\d{4})\b`)
	digitsRE  = regexp.MustCompile(`\D`)
	plusKeep  = regexp.MustCompile(`[^0-9+]`)
)

// NormalizePhone returns an E.164-style number, or "" if the input cannot
// be normalized. Bare 10-digit numbers are assumed to be US.
func NormalizePhone(p string) string {
	raw := strings.TrimSpace(p)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "+") {
		digits := plusKeep.ReplaceAllString(raw, "")
		if len(digits) < 8 {
			return ""
		}
		return digits
	}
	digits := digitsRE.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	case digits != "":
		return "+" + digits
	}
	return ""
}

// ExtractPhoneAndOrder pulls a phone number and a 4-digit order number out
// of free text. Either result may be empty.
func ExtractPhoneAndOrder(text string) (phone, orderNo string) {
	if m := phoneRE.FindString(text); m != "" {
		phone = NormalizePhone(m)
	}
	if m := orderNoRE.FindStringSubmatch(text); m != nil {
		orderNo = m[1]
	}
	return phone, orderNo
}
