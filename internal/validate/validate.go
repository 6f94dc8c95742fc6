// Package validate provides the pure field validators used by the record
// builders. Every function is a total predicate or extractor over primitive
// input values; none of them touch I/O or carry state.
package validate

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// PasswordSymbols is the fixed set of special characters a password must draw
// at least one character from.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// LengthBetween reports whether the length of s falls within [min, max].
func LengthBetween(s string, min, max int) bool {
	return len(s) >= min && len(s) <= max
}

// IsPositive reports whether n is strictly greater than zero.
func IsPositive(n int) bool {
	return n > 0
}

// Coordinate extracts a float64 from a decoded JSON value. It acts as a type
// guard only; the numeric range is deliberately not checked.
func Coordinate(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// IsCoordinate reports whether v carries a numeric type.
func IsCoordinate(v any) bool {
	_, ok := Coordinate(v)
	return ok
}

// IsEmailValid reports whether s has a local-part/domain shape. No DNS or MX
// verification is attempted.
func IsEmailValid(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPasswordValid reports whether s is 7 to 15 characters long and contains at
// least one digit and at least one symbol from PasswordSymbols.
func IsPasswordValid(s string) bool {
	if !LengthBetween(s, 7, 15) {
		return false
	}
	hasDigit := strings.ContainsAny(s, "0123456789")
	hasSymbol := strings.ContainsAny(s, PasswordSymbols)
	return hasDigit && hasSymbol
}

// IsURLValid reports whether s parses as a well-formed URL with an http or
// https scheme. Malformed input is treated as invalid rather than surfaced as
// a parse failure.
func IsURLValid(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// IsDateValid reports whether s is a YYYY-MM-DD calendar date. February has 29
// days only in Gregorian leap years. The year component itself is not range
// checked.
func IsDateValid(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}

	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysInMonth(month, year)
}

// IsTimeValid reports whether s is an HH:MM clock time with hour 0-23 and
// minute 0-59. Any separator other than ':' is invalid.
func IsTimeValid(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}

	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
