package schema

import "strings"

// keyword binds a declaration keyword to the kind of definition it opens.
type keyword struct {
	word string
	kind Kind
}

// Scanner extracts table and view declarations from schema text.
// A Scanner is not modified by Scan and may be shared between goroutines.
type Scanner struct {
	keywords []keyword
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithKeyword registers an additional declaration keyword, e.g. a project
// helper that wraps create_table and takes the same arguments.
func WithKeyword(word string, kind Kind) Option {
	return func(s *Scanner) {
		if word == "" || (kind != KindTable && kind != KindView) {
			return
		}
		s.keywords = append(s.keywords, keyword{word: word, kind: kind})
	}
}

// KeywordOptions converts lists of extra table and view keywords into options.
func KeywordOptions(tables, views []string) []Option {
	opts := make([]Option, 0, len(tables)+len(views))
	for _, w := range tables {
		opts = append(opts, WithKeyword(w, KindTable))
	}
	for _, w := range views {
		opts = append(opts, WithKeyword(w, KindView))
	}
	return opts
}

// NewScanner creates a scanner recognizing create_table and create_view.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		keywords: []keyword{
			{word: "create_table", kind: KindTable},
			{word: "create_view", kind: KindView},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan extracts definitions from input using the default keywords.
func Scan(input string) []Definition {
	return NewScanner().Scan(input)
}

type scanStatus int

const (
	scanOK   scanStatus = iota
	scanSkip            // candidate cannot be bounded, resume after it
	scanEOF             // input ended inside the candidate
)

type openerKind int

const (
	openDo openerKind = iota + 1
	openHeredoc
	openBrace
)

// opener is the token that starts a declaration body.
type opener struct {
	kind  openerKind
	start int
	end   int
	doc   heredoc
}

// Scan walks input once and returns every declaration it can bound, in
// source order. Candidates without a name or opener are skipped; a candidate
// cut off by the end of input ends the scan. Scan never fails.
func (s *Scanner) Scan(input string) []Definition {
	var defs []Definition

	st := &scanState{
		src:   input,
		next:  make([]int, len(s.keywords)),
		lines: lineCounter{src: input, line: 1},
	}
	for k := range st.next {
		st.next[k] = -1
	}

	cursor := 0
	for cursor < len(input) {
		start, kw, ok := s.nextKeyword(st, cursor)
		if !ok {
			break
		}

		end, name, status := scanDeclaration(input, start, kw)
		if status == scanEOF {
			break
		}
		if status == scanSkip {
			cursor = max(end, start+len(kw.word))
			continue
		}

		defs = append(defs, Definition{
			Kind:   kw.kind,
			Name:   name,
			Source: input[start:end],
			Index:  len(defs),
			Offset: start,
			Line:   st.lines.lineAt(start),
		})
		cursor = end
	}

	return defs
}

// scanState carries per-call bookkeeping so the Scanner itself stays immutable.
type scanState struct {
	src   string
	next  []int // cached next occurrence per keyword, -1 when unknown
	lines lineCounter
}

// nextKeyword returns the earliest keyword occurrence at or after from.
func (s *Scanner) nextKeyword(st *scanState, from int) (int, keyword, bool) {
	best := -1
	var bestKw keyword

	for k, kw := range s.keywords {
		pos := st.next[k]
		if pos < from {
			pos = findKeyword(st.src, kw.word, from)
			st.next[k] = pos
			if pos < 0 {
				// Remember exhaustion so later calls skip the search.
				st.next[k] = len(st.src) + 1
				continue
			}
		}
		if pos > len(st.src) {
			continue
		}
		if best < 0 || pos < best || (pos == best && len(kw.word) > len(bestKw.word)) {
			best, bestKw = pos, kw
		}
	}

	return best, bestKw, best >= 0
}

// findKeyword finds word at or after from as a standalone call outside a
// line comment. It returns -1 when there is none.
func findKeyword(src, word string, from int) int {
	for from < len(src) {
		j := strings.Index(src[from:], word)
		if j < 0 {
			return -1
		}
		pos := from + j
		from = pos + 1

		if pos > 0 && (isIdentByte(src[pos-1]) || src[pos-1] == ':' || src[pos-1] == '@' || src[pos-1] == '$') {
			continue
		}
		end := pos + len(word)
		if end < len(src) && !isBlank(src[end]) && src[end] != '(' {
			continue
		}
		if hiddenOnLine(src, strings.LastIndexByte(src[:pos], '\n')+1, pos) {
			continue
		}
		return pos
	}
	return -1
}

// hiddenOnLine reports whether pos sits after a # comment marker or inside a
// quoted run opened earlier on the line that starts at ls.
func hiddenOnLine(src string, ls, pos int) bool {
	for j := ls; j < pos; j++ {
		switch src[j] {
		case '#':
			return true
		case '"', '\'', '`':
			end, ok := skipQuoted(src[:lineEnd(src, j)], j)
			if !ok || end > pos {
				return true
			}
			j = end - 1
		}
	}
	return false
}

// scanDeclaration bounds one declaration whose keyword starts at start.
// On success it returns the offset just past the terminator and the name.
func scanDeclaration(src string, start int, kw keyword) (int, string, scanStatus) {
	i := skipBlanks(src, start+len(kw.word))

	parens := 0
	if i < len(src) && src[i] == '(' {
		parens = 1
		i++
		for i < len(src) && (isBlank(src[i]) || src[i] == '\n') {
			i++
		}
	}
	if i >= len(src) {
		return len(src), "", scanEOF
	}

	name, i, ok := parseName(src, i)
	if !ok {
		return i, "", scanSkip
	}

	op, i, status := scanOptions(src, i, parens, kw.kind)
	if status != scanOK {
		return i, "", status
	}

	var end int
	switch op.kind {
	case openDo:
		end, status = scanBlock(src, op.end)
	case openHeredoc:
		bodyStart := lineEnd(src, op.end) + 1
		if bodyStart > len(src) {
			return len(src), "", scanEOF
		}
		end, ok = heredocEnd(src, bodyStart, op.doc)
		if !ok {
			status = scanEOF
		}
	case openBrace:
		end, ok = skipSQLBraces(src, op.start)
		if !ok {
			status = scanEOF
		}
	}
	if status != scanOK {
		return end, "", status
	}

	return end, name.normalized(), scanOK
}

// scanOptions skips the options clause after a declaration name up to the
// body opener. Tables open with `do`; views open with a heredoc or a brace.
// A line break outside parentheses that does not continue the statement means
// the declaration has no body.
func scanOptions(src string, i, parens int, kind Kind) (opener, int, scanStatus) {
	continued := false

	for i < len(src) {
		c := src[i]

		switch {
		case isBlank(c):
			i++
			continue

		case c == '\n':
			if parens == 0 && !continued {
				return opener{}, i, scanSkip
			}
			i++
			continue

		case c == '#':
			i = lineEnd(src, i)
			continue

		case c == '"' || c == '\'' || c == '`':
			end, ok := skipQuoted(src, i)
			if !ok {
				return opener{}, len(src), scanEOF
			}
			i = end
			continued = false
			continue

		case c == '%':
			if end, literal := skipPercentLiteral(src, i); literal {
				i = end
				continued = false
				continue
			}

		case c == '(':
			parens++

		case c == ')':
			parens--
			if parens < 0 {
				return opener{}, i, scanSkip
			}

		case c == '<' && kind == KindView && i+1 < len(src) && src[i+1] == '<':
			if h, end, ok := parseHeredoc(src, i); ok {
				return opener{kind: openHeredoc, start: i, end: end, doc: h}, end, scanOK
			}

		case c == '{':
			if kind == KindView {
				return opener{kind: openBrace, start: i, end: i + 1}, i + 1, scanOK
			}
			// Lambdas such as default: -> { "gen_random_uuid()" }.
			end, ok := skipBraces(src, i)
			if !ok {
				return opener{}, len(src), scanEOF
			}
			i = end
			continued = false
			continue

		case isIdentStart(c):
			end := scanIdent(src, i)
			if kind == KindTable && parens == 0 && src[i:end] == "do" && isKeywordAt(src, i, end) {
				return opener{kind: openDo, start: i, end: end}, end, scanOK
			}
			i = end
			continued = false
			continue
		}

		continued = strings.IndexByte(",\\(=>|&+-*/.:[{", c) >= 0
		i++
	}

	return opener{}, len(src), scanEOF
}

// scanBlock finds the `end` closing a do-block whose body starts at i.
// Nested blocks raise the depth; only the end that brings it back to zero
// terminates the declaration.
func scanBlock(src string, i int) (int, scanStatus) {
	depth := 1
	stmtStart := true
	loopHeader := false
	var pending []heredoc

	for i < len(src) {
		c := src[i]

		switch {
		case c == '\n':
			i++
			for _, h := range pending {
				end, ok := heredocEnd(src, i, h)
				if !ok {
					return len(src), scanEOF
				}
				i = min(lineEnd(src, end)+1, len(src))
			}
			pending = pending[:0]
			stmtStart, loopHeader = true, false
			if end, ok := skipEmbeddedDoc(src, i); ok {
				i = end
			}

		case isBlank(c):
			i++

		case c == '#':
			i = lineEnd(src, i)

		case c == ';':
			stmtStart, loopHeader = true, false
			i++

		case c == '"' || c == '\'' || c == '`':
			end, ok := skipQuoted(src, i)
			if !ok {
				return len(src), scanEOF
			}
			i = end
			stmtStart = false

		case c == '<' && i+1 < len(src) && src[i+1] == '<':
			if h, end, ok := parseHeredoc(src, i); ok {
				pending = append(pending, h)
				i = end
			} else {
				i += 2
			}
			stmtStart = false

		case c == '%':
			if end, literal := skipPercentLiteral(src, i); literal {
				i = end
			} else {
				i++
			}
			stmtStart = false

		case c >= '0' && c <= '9':
			i = scanIdent(src, i)
			stmtStart = false

		case c == '?':
			i = skipCharLiteral(src, i)
			stmtStart = false

		case c == '/' && regexAllowed(src, i, stmtStart):
			if end, ok := skipRegex(src, i); ok {
				i = end
			} else {
				i++
			}
			stmtStart = false

		case isIdentStart(c):
			end := scanIdent(src, i)
			if end < len(src) && (src[end] == '?' || src[end] == '!') {
				end++
			}
			word := src[i:end]
			next := false

			if isKeywordAt(src, i, end) {
				switch word {
				case "end":
					depth--
					if depth == 0 {
						return end, scanOK
					}
				case "do":
					if loopHeader {
						loopHeader = false
					} else {
						depth++
					}
					next = true
				case "then", "else", "ensure":
					next = true
				default:
					if _, ok := blockKeywords[word]; ok && stmtStart {
						depth++
						_, loopHeader = loopKeywords[word]
						next = word == "begin"
					}
				}
			}

			stmtStart = next
			i = end

		default:
			stmtStart = strings.IndexByte("(=|&", c) >= 0
			i++
		}
	}

	return len(src), scanEOF
}

// isKeywordAt reports whether the word src[start:end] is used as a keyword
// rather than a method call (.end), symbol (:end), variable (@end) or hash
// label (end: 1).
func isKeywordAt(src string, start, end int) bool {
	if start > 0 {
		switch src[start-1] {
		case '.', ':', '@', '$':
			return false
		}
	}
	if end < len(src) && src[end] == ':' && (end+1 >= len(src) || src[end+1] != ':') {
		return false
	}
	return true
}

// skipBraces returns the offset just past the brace matching src[i] in Ruby
// code such as a lambda body. Quoted runs inside the braces are skipped; a
// quote that never closes is plain text.
func skipBraces(src string, i int) (int, bool) {
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
			if end, ok := skipQuoted(src, j); ok {
				j = end - 1
			}
		}
	}
	return len(src), false
}

// skipSQLBraces returns the offset just past the brace matching src[i] when
// the braces hold SQL text. Quotes inside -- comments are plain text, SQL
// strings have no backslash escapes, and an unclosed quote is plain text.
func skipSQLBraces(src string, i int) (int, bool) {
	depth := 0
	comment := false
	for j := i; j < len(src); j++ {
		c := src[j]
		switch {
		case c == '\n':
			comment = false
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case comment:
		case c == '-' && j+1 < len(src) && src[j+1] == '-':
			comment = true
			j++
		case c == '\'' || c == '"':
			if k := strings.IndexByte(src[j+1:], c); k >= 0 {
				j += k + 1
			}
		}
	}
	return len(src), false
}

// lineCounter converts increasing byte offsets to 1-based line numbers.
type lineCounter struct {
	src  string
	pos  int
	line int
}

func (lc *lineCounter) lineAt(offset int) int {
	if offset > len(lc.src) {
		offset = len(lc.src)
	}
	if offset < lc.pos {
		lc.pos, lc.line = 0, 1
	}
	lc.line += strings.Count(lc.src[lc.pos:offset], "\n")
	lc.pos = offset
	return lc.line
}
