package entity

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// IntRange accepts whole numbers within [min, max].
func IntRange(min, max int, msg string) Rule {
	return func(v any, _ Fields) string {
		n, ok := AsInt(v)
		if !ok || n < min || n > max {
			return msg
		}
		return ""
	}
}

// MinDigits counts digits only, so "(555) 123-4567" has ten.
func MinDigits(n int, msg string) Rule {
	return func(v any, _ Fields) string {
		if len(digitsOf(AsString(v))) < n {
			return msg
		}
		return ""
	}
}

// DigitCount requires the value, spaces removed, to be min..max digits.
func DigitCount(min, max int, msg string) Rule {
	return func(v any, _ Fields) string {
		s := strings.ReplaceAll(AsString(v), " ", "")
		if len(s) < min || len(s) > max || digitsOf(s) != s {
			return msg
		}
		return ""
	}
}

func Email(msg string) Rule {
	return func(v any, _ Fields) string {
		if !emailPattern.MatchString(AsString(v)) {
			return msg
		}
		return ""
	}
}

func MinLength(n int, msg string) Rule {
	return func(v any, _ Fields) string {
		if len([]rune(strings.TrimSpace(AsString(v)))) < n {
			return msg
		}
		return ""
	}
}

func OneOf(msg string, options ...string) Rule {
	return func(v any, _ Fields) string {
		s := AsString(v)
		for _, o := range options {
			if s == o {
				return ""
			}
		}
		return msg
	}
}

// DateNotPast accepts YYYY-MM-DD dates on or after today.
func DateNotPast(now func() time.Time, formatMsg, pastMsg string) Rule {
	return func(v any, _ Fields) string {
		t := now()
		d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(AsString(v)), t.Location())
		if err != nil {
			return formatMsg
		}
		today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		if d.Before(today) {
			return pastMsg
		}
		return ""
	}
}

// TimeOfDay accepts HH:MM in 24 hour form.
func TimeOfDay(msg string) Rule {
	return func(v any, _ Fields) string {
		if _, err := time.Parse("15:04", strings.TrimSpace(AsString(v))); err != nil {
			return msg
		}
		return ""
	}
}

// CardExpiry checks an MM/YY expiry date against the current month.
func CardExpiry(now func() time.Time, formatMsg, monthMsg, expiredMsg string) Rule {
	return func(v any, _ Fields) string {
		month, year, ok := strings.Cut(AsString(v), "/")
		if !ok || month == "" || year == "" {
			return formatMsg
		}
		m, err := strconv.Atoi(month)
		if err != nil {
			return formatMsg
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			return formatMsg
		}
		if m < 1 || m > 12 {
			return monthMsg
		}
		t := now()
		curYear, curMonth := t.Year()%100, int(t.Month())
		if y < curYear || (y == curYear && m < curMonth) {
			return expiredMsg
		}
		return ""
	}
}

// GroupCardNumber keeps digits and inserts a space after every fourth one.
func GroupCardNumber(s string) string {
	d := digitsOf(s)
	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return truncate(b.String(), 19)
}

// FormatExpiry turns typed digits into MM/YY.
func FormatExpiry(s string) string {
	d := digitsOf(s)
	if len(d) > 2 {
		d = d[:2] + "/" + d[2:]
	}
	return truncate(d, 5)
}

func FormatCVV(s string) string {
	return truncate(digitsOf(s), 4)
}

// FormatCardName keeps letters and spaces, upper-cased.
func FormatCardName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) && r < unicode.MaxASCII || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
