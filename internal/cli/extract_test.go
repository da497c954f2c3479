package cli

// Test Plan for Extraction:
// - full match writes the blocks verbatim and reports the count
// - partial match writes what exists and warns about the rest
// - no match returns ErrNoMatch, lists available names, writes nothing
// - --stdout prints the blocks and writes no file
// - --quiet suppresses the success line
// - --glob expands patterns; an invalid pattern is an error
// - unreadable schema is an error naming the path
// - extra keywords from config are recognized
// - --verify warns about blocks the Ruby grammar rejects
// - --related pulls in tables linked by foreign keys
// - --watch re-extracts after the schema changes

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `ActiveRecord::Schema[7.1].define(version: 2024_01_01_000000) do
  create_table "users", force: :cascade do |t|
    t.string "email", null: false
    t.index ["email"], unique: true
  end

  create_table "orders", force: :cascade do |t|
    t.bigint "user_id"
    t.decimal "total", precision: 10, scale: 2
  end

  create_view "recent_orders", sql_definition: <<-SQL
      SELECT * FROM orders WHERE created_at > now() - interval '1 day'
  SQL
end
`

const usersBlock = `create_table "users", force: :cascade do |t|
    t.string "email", null: false
    t.index ["email"], unique: true
  end`

const ordersBlock = `create_table "orders", force: :cascade do |t|
    t.bigint "user_id"
    t.decimal "total", precision: 10, scale: 2
  end`

// setupSchema writes testSchema into a temp dir and returns options for it.
func setupSchema(t *testing.T, content string, names ...string) extractOptions {
	t.Helper()

	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.rb")
	require.NoError(t, os.WriteFile(schemaPath, []byte(content), 0644))

	return extractOptions{
		SchemaPath: schemaPath,
		OutputPath: filepath.Join(dir, "ai_context_schema.rb"),
		Names:      names,
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunExtraction_FullMatch(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "orders", "users")
	var stdout, stderr bytes.Buffer

	err := runExtraction(context.Background(), opts, &stdout, &stderr)
	require.NoError(t, err)

	// Source order, blank line between blocks
	assert.Equal(t, usersBlock+"\n\n"+ordersBlock+"\n", readOutput(t, opts.OutputPath))
	assert.Equal(t, "Successfully wrote 2 definition(s) to '"+opts.OutputPath+"'.\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunExtraction_PartialMatch(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "users", "payments", "invoices")
	var stdout, stderr bytes.Buffer

	err := runExtraction(context.Background(), opts, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, usersBlock+"\n", readOutput(t, opts.OutputPath))
	assert.Contains(t, stdout.String(), "Successfully wrote 1 definition(s)")
	assert.Equal(t, "Warning: no definition found for: payments, invoices\n", stderr.String())
}

func TestRunExtraction_NoMatch(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "payments")
	var stdout, stderr bytes.Buffer

	err := runExtraction(context.Background(), opts, &stdout, &stderr)
	require.ErrorIs(t, err, ErrNoMatch)

	assert.Equal(t, "No matching tables found. Available tables:\n  - users\n  - orders\n  - recent_orders\n", stderr.String())
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, opts.OutputPath)
}

func TestRunExtraction_Stdout(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "recent_orders")
	opts.Stdout = true
	var stdout, stderr bytes.Buffer

	require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))

	assert.Equal(t, "create_view \"recent_orders\", sql_definition: <<-SQL\n      SELECT * FROM orders WHERE created_at > now() - interval '1 day'\n  SQL\n", stdout.String())
	assert.NoFileExists(t, opts.OutputPath)
}

func TestRunExtraction_Quiet(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "users")
	opts.Quiet = true
	var stdout, stderr bytes.Buffer

	require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.FileExists(t, opts.OutputPath)
}

func TestRunExtraction_Glob(t *testing.T) {
	t.Parallel()

	t.Run("pattern", func(t *testing.T) {
		opts := setupSchema(t, testSchema, "*orders")
		opts.Glob = true
		var stdout, stderr bytes.Buffer

		require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))
		output := readOutput(t, opts.OutputPath)
		assert.Contains(t, output, `create_table "orders"`)
		assert.Contains(t, output, `create_view "recent_orders"`)
		assert.NotContains(t, output, `create_table "users"`)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		opts := setupSchema(t, testSchema, "users[")
		opts.Glob = true
		var stdout, stderr bytes.Buffer

		err := runExtraction(context.Background(), opts, &stdout, &stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid pattern")
	})
}

func TestRunExtraction_UnreadableSchema(t *testing.T) {
	t.Parallel()

	opts := extractOptions{
		SchemaPath: filepath.Join(t.TempDir(), "missing.rb"),
		OutputPath: filepath.Join(t.TempDir(), "out.rb"),
		Names:      []string{"users"},
	}
	var stdout, stderr bytes.Buffer

	err := runExtraction(context.Background(), opts, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.rb")
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestRunExtraction_UnwritableOutput(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "users")
	opts.OutputPath = filepath.Join(t.TempDir(), "no", "such", "dir", "out.rb")
	var stdout, stderr bytes.Buffer

	err := runExtraction(context.Background(), opts, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write")
}

func TestRunExtraction_ExtraKeywords(t *testing.T) {
	t.Parallel()

	content := testSchema + "\ncreate_hypertable \"metrics\" do |t|\n  t.float \"value\"\nend\n"
	opts := setupSchema(t, content, "metrics")
	opts.TableKeywords = []string{"create_hypertable"}
	var stdout, stderr bytes.Buffer

	require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))
	assert.Equal(t, "create_hypertable \"metrics\" do |t|\n  t.float \"value\"\nend\n", readOutput(t, opts.OutputPath))
}

func TestRunExtraction_Verify(t *testing.T) {
	t.Parallel()

	t.Run("clean blocks", func(t *testing.T) {
		opts := setupSchema(t, testSchema, "users", "recent_orders")
		opts.Verify = true
		var stdout, stderr bytes.Buffer

		require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))
		assert.Empty(t, stderr.String())
	})

	t.Run("broken block still written", func(t *testing.T) {
		content := "create_table \"broken\" do |t|\n  t.string \"name\", default: (\nend\n"
		opts := setupSchema(t, content, "broken")
		opts.Verify = true
		var stdout, stderr bytes.Buffer

		require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "Warning: table 'broken' (line 1) does not parse as Ruby")
		assert.FileExists(t, opts.OutputPath)
	})
}

func TestRunWatch_ReextractsOnChange(t *testing.T) {
	t.Parallel()

	opts := setupSchema(t, testSchema, "users", "accounts")
	opts.Quiet = true
	opts.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var stdout, stderr syncBuffer

	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, opts, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(opts.OutputPath)
		return err == nil && string(data) == usersBlock+"\n"
	}, 2*time.Second, 20*time.Millisecond)

	updated := testSchema + "\ncreate_table \"accounts\" do |t|\nend\n"
	require.NoError(t, os.WriteFile(opts.SchemaPath, []byte(updated), 0644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(opts.OutputPath)
		return err == nil && string(data) == usersBlock+"\n\ncreate_table \"accounts\" do |t|\nend\n"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runWatch did not return after cancellation")
	}
}

func TestRunExtraction_Related(t *testing.T) {
	t.Parallel()

	content := testSchema + "\nadd_foreign_key \"orders\", \"users\"\n"
	opts := setupSchema(t, content, "orders")
	opts.Related = 1
	var stdout, stderr bytes.Buffer

	require.NoError(t, runExtraction(context.Background(), opts, &stdout, &stderr))
	assert.Equal(t, usersBlock+"\n\n"+ordersBlock+"\n", readOutput(t, opts.OutputPath))
	assert.Contains(t, stdout.String(), "Successfully wrote 2 definition(s)")
}
