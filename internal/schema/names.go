package schema

import "strings"

// nameForm records how a declaration spelled its name.
type nameForm int

const (
	nameQuoted nameForm = iota + 1 // "contacts" or 'contacts'
	nameSymbol                     // :contacts or :"contacts"
	nameBare                       // contacts
)

// declName is the result of parsing the token after a declaration keyword.
type declName struct {
	form nameForm
	raw  string
}

// normalized returns the plain identifier regardless of form.
func (n declName) normalized() string {
	return NormalizeName(n.raw)
}

var unescaper = strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`)

// NormalizeName strips string quotes and symbol markers from a name token.
// "contacts", 'contacts', :contacts, :"contacts" and contacts all yield contacts.
func NormalizeName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, ":")
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'') && s[len(s)-1] == q {
			s = unescaper.Replace(s[1 : len(s)-1])
		}
	}
	return s
}

// parseName reads a declaration name starting at i. It tries the quoted form
// first, then the symbol and bare identifier forms. The returned offset points
// just past the name token.
func parseName(src string, i int) (declName, int, bool) {
	if i >= len(src) {
		return declName{}, i, false
	}

	switch c := src[i]; {
	case c == '"' || c == '\'':
		end, ok := skipQuoted(src, i)
		if !ok || end-i <= 2 || strings.ContainsAny(src[i+1:end-1], "\r\n") {
			return declName{}, i, false
		}
		return declName{form: nameQuoted, raw: src[i:end]}, end, true

	case c == ':':
		if i+1 < len(src) && (src[i+1] == '"' || src[i+1] == '\'') {
			n, end, ok := parseName(src, i+1)
			if !ok {
				return declName{}, i, false
			}
			return declName{form: nameSymbol, raw: ":" + n.raw}, end, true
		}
		end := scanIdent(src, i+1)
		if end == i+1 {
			return declName{}, i, false
		}
		return declName{form: nameSymbol, raw: src[i:end]}, end, true

	case isIdentStart(c):
		end := scanIdent(src, i)
		if _, reserved := blockKeywords[src[i:end]]; reserved || src[i:end] == "do" || src[i:end] == "end" {
			return declName{}, i, false
		}
		return declName{form: nameBare, raw: src[i:end]}, end, true
	}

	return declName{}, i, false
}
