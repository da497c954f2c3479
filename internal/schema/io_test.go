package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{Name: "a", Source: "create_table \"a\" do |t|\nend"},
		{Name: "b", Source: "create_view \"b\", sql_definition: <<-SQL\n  SELECT 1\n  SQL"},
	}

	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "create_table \"a\" do |t|\nend\n", Render(defs[:1]))
	assert.Equal(t,
		"create_table \"a\" do |t|\nend\n\ncreate_view \"b\", sql_definition: <<-SQL\n  SELECT 1\n  SQL\n",
		Render(defs))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, defs))
	assert.Equal(t, Render(defs), buf.String())
}

func TestReadWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "schema.rb")
	output := filepath.Join(dir, "out.rb")

	require.NoError(t, os.WriteFile(input, []byte(loadFixture(t)), 0644))

	contents, err := ReadFile(input)
	require.NoError(t, err)

	sel := Select(Scan(contents), []string{"contacts", "matters"})
	require.NoError(t, WriteFile(output, sel.Matched))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `create_table "contacts"`)
	assert.Contains(t, string(data), `create_table :matters`)
	assert.NotContains(t, string(data), `create_table("notes"`)
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nonexistent.rb")
	_, err := ReadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestWriteFile_BadDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.rb")
	err := WriteFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
