package schema

// ForeignKey is an add_foreign_key statement: From references To.
type ForeignKey struct {
	From string
	To   string
	Line int
}

// ForeignKeys returns the add_foreign_key statements of input in source order.
// Only the two table names are read; options such as column: are ignored.
// Statements inside definition bodies (e.g. heredoc SQL) are not reported.
func ForeignKeys(input string, defs []Definition) []ForeignKey {
	const word = "add_foreign_key"

	var fks []ForeignKey
	lines := lineCounter{src: input, line: 1}
	d := 0

	for from := 0; from < len(input); {
		pos := findKeyword(input, word, from)
		if pos < 0 {
			break
		}
		from = pos + len(word)

		for d < len(defs) && defs[d].Offset+len(defs[d].Source) <= pos {
			d++
		}
		if d < len(defs) && defs[d].Offset <= pos {
			continue
		}

		i := skipBlanks(input, from)
		if i < len(input) && input[i] == '(' {
			i = skipBlanks(input, i+1)
		}
		src, i, ok := parseName(input, i)
		if !ok {
			continue
		}
		i = skipBlanks(input, i)
		if i >= len(input) || input[i] != ',' {
			continue
		}
		dst, _, ok := parseName(input, skipBlanks(input, i+1))
		if !ok {
			continue
		}

		fks = append(fks, ForeignKey{
			From: src.normalized(),
			To:   dst.normalized(),
			Line: lines.lineAt(pos),
		})
	}

	return fks
}
