package record

import "strings"

// CamelToSnake translates an in-memory field name to its storage column name:
// every uppercase letter becomes an underscore followed by its lowercase form.
func CamelToSnake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SnakeToCamel is the inverse transform: the letter following each underscore
// is capitalized and the underscore dropped.
func SnakeToCamel(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	upperNext := false
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - ('a' - 'A'))
			upperNext = false
			continue
		}
		upperNext = false
		b.WriteRune(r)
	}
	return b.String()
}
