package schema

import (
	"strings"
	"unicode/utf8"
)

// blockKeywords open a construct closed by `end` when they start a statement.
// Used as modifiers (`x if y`) they do not, which is why position matters.
var blockKeywords = map[string]struct{}{
	"if":     {},
	"unless": {},
	"case":   {},
	"while":  {},
	"until":  {},
	"for":    {},
	"begin":  {},
	"def":    {},
	"class":  {},
	"module": {},
}

// loopKeywords may be followed by an optional `do` that belongs to the loop header.
var loopKeywords = map[string]struct{}{
	"while": {},
	"until": {},
	"for":   {},
}

// isIdentStart accepts any byte of a multi-byte UTF-8 sequence, as Ruby
// identifiers may contain non-ASCII letters.
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

// scanIdent returns the offset just past the identifier starting at i.
func scanIdent(src string, i int) int {
	for i < len(src) && isIdentByte(src[i]) {
		i++
	}
	return i
}

// skipBlanks skips spaces and tabs but stops at newlines.
func skipBlanks(src string, i int) int {
	for i < len(src) && isBlank(src[i]) {
		i++
	}
	return i
}

// lineEnd returns the offset of the newline ending the line containing i,
// or len(src) on the last line.
func lineEnd(src string, i int) int {
	if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(src)
}

// skipQuoted skips a quoted run starting at the opening quote src[i].
// Backslash escapes are honored, and in double-quoted and backtick strings
// #{...} interpolations may nest further strings. ok is false when the quote
// is never closed.
func skipQuoted(src string, i int) (int, bool) {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '#':
			if q == '\'' || j+1 >= len(src) || src[j+1] != '{' {
				continue
			}
			end, ok := skipInterpolation(src, j+1)
			if !ok {
				return len(src), false
			}
			j = end - 1
		case q:
			return j + 1, true
		}
	}
	return len(src), false
}

// skipInterpolation returns the offset just past the brace closing the
// interpolation whose opening brace is src[i].
func skipInterpolation(src string, i int) (int, bool) {
	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case '"', '\'', '`':
			end, ok := skipQuoted(src, j)
			if !ok {
				return len(src), false
			}
			j = end - 1
		}
	}
	return len(src), false
}

// skipCharLiteral skips a character literal such as ?a, ?' or ?\n at src[i].
// A ? used as the ternary operator is consumed alone.
func skipCharLiteral(src string, i int) int {
	if i+1 >= len(src) {
		return i + 1
	}
	if i > 0 && (isIdentByte(src[i-1]) || strings.IndexByte(")]}", src[i-1]) >= 0) {
		return i + 1
	}

	c := src[i+1]
	switch {
	case isBlank(c) || c == '\n':
		return i + 1
	case c == '\\':
		return min(i+3, len(src))
	}

	_, size := utf8.DecodeRuneInString(src[i+1:])
	end := i + 1 + size
	// ?ab is a ternary followed by an identifier, not a literal.
	if isIdentByte(c) && end < len(src) && isIdentByte(src[end]) {
		return i + 1
	}
	return end
}

// regexAllowed reports whether a / at src[i] opens a regexp literal rather
// than dividing: it must start an expression, follow an operator, a comma or
// an opening bracket, or follow a hash label such as format:.
func regexAllowed(src string, i int, exprStart bool) bool {
	if exprStart {
		return true
	}
	j := i - 1
	for j >= 0 && isBlank(src[j]) {
		j--
	}
	if j < 0 || src[j] == '\n' {
		return true
	}
	return strings.IndexByte(",(=|&!~{[:;?<>+-*%", src[j]) >= 0
}

// skipRegex skips a single-line /.../flags literal at src[i]. ok is false
// when the line ends first, in which case the / is division.
func skipRegex(src string, i int) (int, bool) {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '\n':
			return i, false
		case '/':
			j++
			for j < len(src) && strings.IndexByte("imxo", src[j]) >= 0 {
				j++
			}
			return j, true
		}
	}
	return i, false
}

var percentClosers = map[byte]byte{'(': ')', '[': ']', '{': '}', '<': '>'}

// skipPercentLiteral skips %w[...], %i(...), %q{...} and similar literals at src[i].
// literal is false when the % is an operator rather than a literal opener.
// An unterminated literal returns len(src).
func skipPercentLiteral(src string, i int) (end int, literal bool) {
	if i+1 >= len(src) {
		return i + 1, false
	}

	start := i + 1
	if strings.IndexByte("qQwWiIrsx", src[start]) >= 0 {
		start++
		if start >= len(src) || isIdentByte(src[start]) || isBlank(src[start]) || src[start] == '\n' {
			return i + 1, false
		}
	} else if strings.IndexByte("([{<|!/", src[start]) < 0 {
		return i + 1, false
	}

	open := src[start]
	closer, nests := percentClosers[open]
	if !nests {
		closer = open
	}

	depth := 1
	for j := start + 1; j < len(src); j++ {
		switch c := src[j]; {
		case c == '\\':
			j++
		case nests && c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return j + 1, true
			}
		}
	}
	return len(src), true
}

// heredoc describes a here-document opener such as <<-SQL or <<~'SQL'.
type heredoc struct {
	sentinel string
	indented bool
}

// parseHeredoc reads a heredoc opener at src[i:], which must start with "<<".
func parseHeredoc(src string, i int) (heredoc, int, bool) {
	j := i + 2
	if j >= len(src) {
		return heredoc{}, i, false
	}

	var h heredoc
	if src[j] == '-' || src[j] == '~' {
		h.indented = true
		j++
	}
	if j >= len(src) {
		return heredoc{}, i, false
	}

	switch c := src[j]; {
	case c == '\'' || c == '"' || c == '`':
		end, ok := skipQuoted(src, j)
		if !ok || end-j <= 2 {
			return heredoc{}, i, false
		}
		h.sentinel = src[j+1 : end-1]
		if strings.ContainsAny(h.sentinel, "\r\n") {
			return heredoc{}, i, false
		}
		return h, end, true

	case isIdentStart(c):
		// A bare <<word without - or ~ is only a heredoc when the word looks
		// like a constant; otherwise it is an append operator.
		if !h.indented && !(c == '_' || (c >= 'A' && c <= 'Z')) {
			return heredoc{}, i, false
		}
		end := scanIdent(src, j)
		h.sentinel = src[j:end]
		return h, end, true
	}

	return heredoc{}, i, false
}

// heredocEnd finds the closing sentinel line of h, searching line by line from
// the line start at from. It returns the offset just past the sentinel token.
// The sentinel must be the only content of its line; leading blanks are allowed
// for the indented forms and a trailing carriage return is ignored.
func heredocEnd(src string, from int, h heredoc) (int, bool) {
	for ls := from; ls < len(src); {
		le := lineEnd(src, ls)
		line := strings.TrimRight(src[ls:le], "\r")

		lead := 0
		if h.indented {
			for lead < len(line) && (line[lead] == ' ' || line[lead] == '\t') {
				lead++
			}
		}
		if line[lead:] == h.sentinel {
			return ls + lead + len(h.sentinel), true
		}

		ls = le + 1
	}
	return len(src), false
}

// skipEmbeddedDoc skips a =begin ... =end block that starts at the line start i.
// It returns the offset of the newline ending the =end line.
func skipEmbeddedDoc(src string, i int) (int, bool) {
	if !hasWordAt(src, i, "=begin") {
		return i, false
	}
	for ls := lineEnd(src, i) + 1; ls < len(src); ls = lineEnd(src, ls) + 1 {
		if hasWordAt(src, ls, "=end") {
			return lineEnd(src, ls), true
		}
	}
	return len(src), true
}

// hasWordAt reports whether word occurs at src[i:] and is not followed by an
// identifier byte.
func hasWordAt(src string, i int, word string) bool {
	if !strings.HasPrefix(src[i:], word) {
		return false
	}
	end := i + len(word)
	return end >= len(src) || !isIdentByte(src[end])
}
