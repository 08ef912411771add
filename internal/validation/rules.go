package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rule checks one trimmed value. Every rule except Required passes on "".
type Rule struct {
	name  string
	check func(label, value string) (string, bool)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required rejects blank values.
func Required() Rule {
	return Rule{name: "required", check: func(label, value string) (string, bool) {
		if value == "" {
			return fmt.Sprintf("%s is required", label), false
		}
		return "", true
	}}
}

// MaxLength caps the number of characters.
func MaxLength(n int) Rule {
	return Rule{name: "max_length", check: func(label, value string) (string, bool) {
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("%s must be %d characters or fewer", label, n), false
		}
		return "", true
	}}
}

// MinLength requires at least n characters when a value is present.
func MinLength(n int) Rule {
	return Rule{name: "min_length", check: func(label, value string) (string, bool) {
		if value != "" && utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("%s must be at least %d characters", label, n), false
		}
		return "", true
	}}
}

// Email accepts local@domain.tld shaped addresses.
func Email() Rule {
	return Rule{name: "email", check: func(label, value string) (string, bool) {
		if value != "" && !emailPattern.MatchString(value) {
			return "Please enter a valid email address", false
		}
		return "", true
	}}
}

// Digits requires exactly n ASCII digits.
func Digits(n int) Rule {
	return Rule{name: "digits", check: func(label, value string) (string, bool) {
		if value == "" {
			return "", true
		}
		if len(value) != n || !allDigits(value) {
			return fmt.Sprintf("%s must be %d digits", label, n), false
		}
		return "", true
	}}
}

// ZipCode is a 5-digit US zip.
func ZipCode() Rule {
	r := Digits(5)
	return Rule{name: "zip", check: func(label, value string) (string, bool) {
		if _, ok := r.check(label, value); !ok {
			return "Please enter a valid 5-digit zip code", false
		}
		return "", true
	}}
}

// Phone accepts 10-digit US numbers with common separators and an optional
// leading country code 1.
func Phone() Rule {
	return Rule{name: "phone", check: func(label, value string) (string, bool) {
		if value == "" {
			return "", true
		}
		digits := NormalizePhone(value)
		if len(digits) != 10 {
			return "Please enter a valid 10-digit phone number", false
		}
		return "", true
	}}
}

// OneOf requires membership in a fixed set, compared case-insensitively.
func OneOf(allowed ...string) Rule {
	return Rule{name: "one_of", check: func(label, value string) (string, bool) {
		if value == "" {
			return "", true
		}
		for _, candidate := range allowed {
			if strings.EqualFold(candidate, value) {
				return "", true
			}
		}
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(allowed, ", ")), false
	}}
}

// Letters requires exactly n ASCII letters (state codes).
func Letters(n int) Rule {
	return Rule{name: "letters", check: func(label, value string) (string, bool) {
		if value == "" {
			return "", true
		}
		if len(value) != n {
			return fmt.Sprintf("%s must be %d letters", label, n), false
		}
		for _, r := range value {
			if r > unicode.MaxASCII || !unicode.IsLetter(r) {
				return fmt.Sprintf("%s must be %d letters", label, n), false
			}
		}
		return "", true
	}}
}

// Date requires a YYYY-MM-DD calendar date.
func Date() Rule {
	return Rule{name: "date", check: func(label, value string) (string, bool) {
		if value == "" {
			return "", true
		}
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", label), false
		}
		return "", true
	}}
}

// NormalizePhone strips separators and a leading US country code. Values
// containing letters normalise to "".
func NormalizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsLetter(r):
			return ""
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
