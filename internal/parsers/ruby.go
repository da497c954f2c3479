package parsers

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/mvp-joe/ais/internal/schema"
)

// SyntaxError is an ERROR or MISSING node reported by the Ruby grammar.
type SyntaxError struct {
	Line    int // 1-based
	Column  int // 1-based
	Missing bool
	Text    string
}

// Declaration is a create_table or create_view call as the grammar sees it.
type Declaration struct {
	Kind      schema.Kind
	Name      string
	StartLine int
	EndLine   int
}

// SyntaxReport is the result of checking a Ruby source fragment.
type SyntaxReport struct {
	Errors       []SyntaxError
	Declarations []Declaration
}

// OK reports whether the source parsed without errors.
func (r *SyntaxReport) OK() bool {
	return len(r.Errors) == 0
}

// declarationMethods maps DSL method names to definition kinds.
var declarationMethods = map[string]schema.Kind{
	"create_table": schema.KindTable,
	"create_view":  schema.KindView,
}

// RubyParser checks Ruby schema fragments with tree-sitter.
type RubyParser struct {
	*treeSitterParser
}

// NewRubyParser creates a new Ruby parser.
func NewRubyParser() *RubyParser {
	lang := sitter.NewLanguage(ruby.Language())
	return &RubyParser{
		treeSitterParser: newTreeSitterParser(lang, "ruby"),
	}
}

// Check parses source and reports syntax errors and declaration calls.
func (p *RubyParser) Check(ctx context.Context, source []byte) (*SyntaxReport, error) {
	tree, err := p.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	report := &SyntaxReport{
		Errors:       []SyntaxError{},
		Declarations: []Declaration{},
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		p.collectErrors(rootNode, source, report)
	}
	p.collectDeclarations(rootNode, source, report)

	return report, nil
}

// collectErrors records every ERROR and MISSING node.
func (p *RubyParser) collectErrors(node *sitter.Node, source []byte, report *SyntaxReport) {
	walkTree(node, func(n *sitter.Node) bool {
		if n.IsError() || n.IsMissing() {
			pos := n.StartPosition()
			report.Errors = append(report.Errors, SyntaxError{
				Line:    int(pos.Row) + 1,
				Column:  int(pos.Column) + 1,
				Missing: n.IsMissing(),
				Text:    n.Kind(),
			})
			// Children of an ERROR node are part of the same error
			return false
		}
		return n.HasError()
	})
}

// collectDeclarations finds create_table/create_view calls and their first argument.
func (p *RubyParser) collectDeclarations(node *sitter.Node, source []byte, report *SyntaxReport) {
	walkTree(node, func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}

		methodNode := n.ChildByFieldName("method")
		kind, ok := declarationMethods[extractNodeText(methodNode, source)]
		if !ok {
			return true
		}

		argsNode := n.ChildByFieldName("arguments")
		if argsNode == nil || argsNode.NamedChildCount() == 0 {
			return true
		}

		name := schema.NormalizeName(extractNodeText(argsNode.NamedChild(0), source))
		if name == "" {
			return true
		}

		report.Declarations = append(report.Declarations, Declaration{
			Kind:      kind,
			Name:      name,
			StartLine: int(n.StartPosition().Row) + 1,
			EndLine:   int(n.EndPosition().Row) + 1,
		})
		// Declarations do not nest
		return false
	})
}
