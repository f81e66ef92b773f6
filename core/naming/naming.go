// Package naming converts source identifiers into the names used by generated code and by the
// database.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ColumnName converts a camelCase identifier into its default lower snake_case column name.
//
// A word boundary is placed before an upper-case letter that follows a lower-case letter or a
// digit, and before the last letter of an upper-case run when a lower-case letter follows it, so
// acronyms stay together:
//
//	userId          -> user_id
//	URLPath         -> url_path
//	getHTTPResponse -> get_http_response
//	address1Line    -> address1_line
//	user_id         -> user_id
//
// Existing underscores are kept and never doubled.
func ColumnName(identifier string) string {
	runes := []rune(identifier)
	var b strings.Builder
	b.Grow(len(identifier) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && runes[i-1] != '_' && isBoundary(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return cases.Lower(language.Und).String(b.String())
}

func isBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// LowerFirst lower-cases the first rune of name and leaves the rest untouched.
func LowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return cases.Lower(language.Und).String(string(r)) + name[size:]
}
