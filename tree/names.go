package tree

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the NFC form of name. Names are compared after
// normalization so that composed and decomposed spellings are equal.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// ValidName reports whether name is a qualified name: an optional prefix and
// a local part separated by a single colon, each starting with a letter or
// underscore and continuing with letters, digits, '-', '.' or '_'.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	prefix, local, found := strings.Cut(name, ":")
	if found {
		return validNCName(prefix) && validNCName(local)
	}
	return validNCName(name)
}

func validNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '.' && r != '_' {
			return false
		}
	}
	return true
}
