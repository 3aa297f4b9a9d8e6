package calls

import (
	"regexp"
	"strings"
)

// northAmericanNumber matches an optional +, an optional country code 1,
// then an area code and exchange that do not start with 0 or 1.
var northAmericanNumber = regexp.MustCompile(`^\+?1?[2-9]\d{2}[2-9]\d{2}\d{4}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// ValidatePhone reports whether raw is a North American number once spaces,
// hyphens and parentheses are removed.
func ValidatePhone(raw string) bool {
	return northAmericanNumber.MatchString(phoneSeparators.Replace(strings.TrimSpace(raw)))
}

// FormatPhone returns the +1 form of a number accepted by ValidatePhone.
func FormatPhone(raw string) string {
	digits := sanitizePhone(raw)
	if len(digits) == 10 {
		return "+1" + digits
	}
	return "+" + digits
}

func sanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
