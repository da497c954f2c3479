package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/ais/internal/schema"
)

// Test Plan for RubyParser:
// - A complete table block parses cleanly and reports one table declaration
// - A heredoc view parses cleanly and reports one view declaration
// - Quoted and symbol names normalize to the same declaration name
// - A truncated block reports at least one syntax error with a line number
// - Every definition the scanner extracts from a schema parses cleanly
// - A cancelled context returns an error without parsing

const testSchema = `ActiveRecord::Schema[7.0].define(version: 2024_02_11_123456) do
  create_table "contacts" do |t|
    t.string "email"
    t.timestamps
  end

  create_table :matters, force: :cascade do |t|
    t.string "title"
  end

  create_view "charges", sql_definition: <<-SQL
      SELECT time_entries.actual_hours
      -- until the end | of time
      FROM time_entries;
  SQL
end
`

func TestRubyParser_CheckTable(t *testing.T) {
	t.Parallel()

	parser := NewRubyParser()
	report, err := parser.Check(context.Background(), []byte("create_table \"contacts\" do |t|\n  t.string \"email\"\nend\n"))
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.True(t, report.OK(), "errors: %+v", report.Errors)
	require.Len(t, report.Declarations, 1)
	assert.Equal(t, schema.KindTable, report.Declarations[0].Kind)
	assert.Equal(t, "contacts", report.Declarations[0].Name)
	assert.Equal(t, 1, report.Declarations[0].StartLine)
	assert.Equal(t, 3, report.Declarations[0].EndLine)
}

func TestRubyParser_CheckView(t *testing.T) {
	t.Parallel()

	parser := NewRubyParser()
	source := "create_view \"charges\", sql_definition: <<-SQL\n  SELECT 1\n  -- the end\n  SQL\n"
	report, err := parser.Check(context.Background(), []byte(source))
	require.NoError(t, err)

	assert.True(t, report.OK(), "errors: %+v", report.Errors)
	require.Len(t, report.Declarations, 1)
	assert.Equal(t, schema.KindView, report.Declarations[0].Kind)
	assert.Equal(t, "charges", report.Declarations[0].Name)
}

func TestRubyParser_FullSchema(t *testing.T) {
	t.Parallel()

	parser := NewRubyParser()
	report, err := parser.Check(context.Background(), []byte(testSchema))
	require.NoError(t, err)

	assert.True(t, report.OK())

	var names []string
	for _, d := range report.Declarations {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"contacts", "matters", "charges"}, names)
}

func TestRubyParser_TruncatedBlock(t *testing.T) {
	t.Parallel()

	parser := NewRubyParser()
	report, err := parser.Check(context.Background(), []byte("create_table \"contacts\" do |t|\n  t.string \"email\"\n"))
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.NotEmpty(t, report.Errors)
	assert.GreaterOrEqual(t, report.Errors[0].Line, 1)
}

func TestRubyParser_ScannerAgreement(t *testing.T) {
	t.Parallel()

	parser := NewRubyParser()
	for _, def := range schema.Scan(testSchema) {
		t.Run(def.Name, func(t *testing.T) {
			report, err := parser.Check(context.Background(), []byte(def.Source+"\n"))
			require.NoError(t, err)
			assert.True(t, report.OK(), "errors: %+v", report.Errors)
			require.Len(t, report.Declarations, 1)
			assert.Equal(t, def.Name, report.Declarations[0].Name)
			assert.Equal(t, def.Kind, report.Declarations[0].Kind)
		})
	}
}

func TestRubyParser_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRubyParser().Check(ctx, []byte("create_table \"x\" do |t|\nend\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
