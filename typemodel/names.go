package typemodel

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UpperFirst returns s with its first rune upper cased. Generated property
// names are the UpperFirst of their schema field name.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst returns s with its first rune lower cased. It inverts UpperFirst
// for names that start with a lower case letter, which restores the schema
// field name when a document is serialized.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// constName returns the exported constant name for an enum value, e.g.
// SUPER_ADMIN on enum Role becomes RoleSuperAdmin.
func constName(enum, value string) string {
	var b strings.Builder
	b.WriteString(enum)
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for _, part := range parts {
		b.WriteString(UpperFirst(strings.ToLower(part)))
	}
	return b.String()
}

// fallbackConstName is used when constName would collide with an earlier
// value of the same enum.
func fallbackConstName(enum, value string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, value)
	return enum + "_" + safe
}
