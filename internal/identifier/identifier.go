// file: internal/identifier/identifier.go
// version: 1.0.0
// guid: 3f8a1b2c-4d5e-6f7a-8b9c-0d1e2f3a4b5c

package identifier

import "strings"

// Identifiers holds the ISBNs recognized in a document's identifier metadata.
// Nil fields mean the corresponding form was not found.
type Identifiers struct {
	ISBN10 *string `json:"isbn10,omitempty"`
	ISBN13 *string `json:"isbn13,omitempty"`
}

// LookupKey returns the identifier preferred for external lookups,
// ISBN-13 first. The second return is false when neither is present.
func (ids Identifiers) LookupKey() (string, bool) {
	if ids.ISBN13 != nil {
		return *ids.ISBN13, true
	}
	if ids.ISBN10 != nil {
		return *ids.ISBN10, true
	}
	return "", false
}

// Normalize classifies a set of raw identifier strings (as found in EPUB
// dc:identifier entries) into ISBN-10 and ISBN-13. Raw values may carry
// hyphens, spaces, an "ISBN:" prefix, or be unrelated URNs/UUIDs; anything
// that does not classify is ignored. First match wins per category, and
// both categories may be populated when a document declares both forms.
func Normalize(raw []string) Identifiers {
	var ids Identifiers
	for _, value := range raw {
		cleaned := stripSeparators(value)

		if ids.ISBN13 == nil && isISBN13(cleaned) {
			isbn := cleaned
			ids.ISBN13 = &isbn
			continue
		}

		if ids.ISBN10 == nil && isISBN10(cleaned) {
			isbn := cleaned
			ids.ISBN10 = &isbn
			continue
		}

		// Values like "ISBN:978-..." or "urn:isbn:..." survive the plain
		// length checks above; strip the scheme and retest.
		if strings.Contains(strings.ToUpper(value), "ISBN") {
			part := strings.ReplaceAll(strings.ToUpper(value), "ISBN", "")
			part = strings.NewReplacer("-", "", " ", "", ":", "").Replace(part)
			switch {
			case ids.ISBN13 == nil && len(part) == 13 && allDigits(part):
				ids.ISBN13 = &part
			case ids.ISBN10 == nil && len(part) == 10 && digitCount(part) >= 9:
				ids.ISBN10 = &part
			}
		}
	}
	return ids
}

func stripSeparators(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

func isISBN13(s string) bool {
	if len(s) != 13 || !allDigits(s) {
		return false
	}
	return strings.HasPrefix(s, "978") || strings.HasPrefix(s, "979")
}

// isISBN10 accepts ten characters of which at least nine are digits; the
// check character may be 'X'.
func isISBN10(s string) bool {
	return len(s) == 10 && digitCount(s) >= 9
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
