package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/ais/internal/config"
	"github.com/mvp-joe/ais/internal/parsers"
	"github.com/mvp-joe/ais/internal/relations"
	"github.com/mvp-joe/ais/internal/schema"
	"github.com/mvp-joe/ais/internal/watcher"
)

// ErrNoMatch is returned when none of the requested names exist in the schema.
var ErrNoMatch = errors.New("no matching tables found")

var (
	schemaFile string
	outputFile string
	useGlob    bool
	toStdout   bool
	verify     bool
	watch      bool
	quiet      bool
	related    int
)

func init() {
	rootCmd.Flags().StringVarP(&schemaFile, "file", "f", "db/schema.rb", "schema file to read")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "ai_context_schema.rb", "file to write the extracted definitions to")
	rootCmd.Flags().BoolVarP(&useGlob, "glob", "g", false, "treat NAMEs as glob patterns (e.g. 'user_*')")
	rootCmd.Flags().BoolVar(&toStdout, "stdout", false, "print the extracted definitions instead of writing a file")
	rootCmd.Flags().BoolVar(&verify, "verify", false, "check extracted definitions with the tree-sitter Ruby grammar")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-extract whenever the schema file changes")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress success output")
	rootCmd.Flags().IntVarP(&related, "related", "r", 0, "also extract tables within N foreign-key hops")
}

// extractOptions holds everything one extraction run needs.
type extractOptions struct {
	SchemaPath    string
	OutputPath    string
	Names         []string
	Glob          bool
	Stdout        bool
	Verify        bool
	Quiet         bool
	Verbose       bool
	Related       int
	TableKeywords []string
	ViewKeywords  []string
	Debounce      time.Duration
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags override config values only when set explicitly.
	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Schema.Path = schemaFile
	}
	if flags.Changed("output") {
		cfg.Schema.Output = outputFile
	}
	if flags.Changed("verify") {
		cfg.Extract.Verify = verify
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	opts := extractOptions{
		SchemaPath:    cfg.Schema.Path,
		OutputPath:    cfg.Schema.Output,
		Names:         args,
		Glob:          useGlob,
		Stdout:        toStdout,
		Verify:        cfg.Extract.Verify,
		Quiet:         quiet,
		Verbose:       verbose,
		Related:       related,
		TableKeywords: cfg.Extract.TableKeywords,
		ViewKeywords:  cfg.Extract.ViewKeywords,
		Debounce:      time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	}

	if watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return runExtraction(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runExtraction reads the schema, selects the requested definitions and writes them.
func runExtraction(ctx context.Context, opts extractOptions, stdout, stderr io.Writer) error {
	contents, err := schema.ReadFile(opts.SchemaPath)
	if err != nil {
		return err
	}

	scanner := schema.NewScanner(schema.KeywordOptions(opts.TableKeywords, opts.ViewKeywords)...)
	defs := scanner.Scan(contents)
	if opts.Verbose {
		fmt.Fprintf(stderr, "Found %d definition(s) in '%s'\n", len(defs), opts.SchemaPath)
	}

	var sel schema.Selection
	if opts.Glob {
		sel, err = schema.SelectGlob(defs, opts.Names)
		if err != nil {
			return err
		}
	} else {
		sel = schema.Select(defs, opts.Names)
	}

	if !sel.Found() {
		reportNoMatch(stderr, defs)
		return ErrNoMatch
	}

	if opts.Related > 0 {
		sel, err = relations.Expand(contents, defs, sel, opts.Related)
		if err != nil {
			return err
		}
	}

	if opts.Verify {
		if err := verifyDefinitions(ctx, stderr, sel.Matched); err != nil {
			return err
		}
	}

	if opts.Stdout {
		if err := schema.Write(stdout, sel.Matched); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		if err := schema.WriteFile(opts.OutputPath, sel.Matched); err != nil {
			return err
		}
		if !opts.Quiet {
			fmt.Fprintln(stdout, successFmt("Successfully wrote %d definition(s) to '%s'.", len(sel.Matched), opts.OutputPath))
		}
	}

	if sel.Partial() {
		fmt.Fprintln(stderr, warnFmt("Warning: no definition found for: %s", strings.Join(sel.Unmatched, ", ")))
	}

	return nil
}

// reportNoMatch lists the names that could have been requested.
func reportNoMatch(w io.Writer, defs []schema.Definition) {
	fmt.Fprintln(w, errorFmt("No matching tables found. Available tables:"))
	for _, name := range schema.Names(defs) {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}

// verifyDefinitions parses each definition with tree-sitter and warns about
// blocks the Ruby grammar rejects. Rejections never fail the extraction.
func verifyDefinitions(ctx context.Context, stderr io.Writer, defs []schema.Definition) error {
	parser := parsers.NewRubyParser()

	for _, d := range defs {
		// Heredoc sentinels need their line terminated.
		report, err := parser.Check(ctx, []byte(d.Source+"\n"))
		if err != nil {
			return fmt.Errorf("failed to verify %s '%s': %w", d.Kind, d.Name, err)
		}
		if report.OK() {
			continue
		}

		first := report.Errors[0]
		fmt.Fprintln(stderr, warnFmt("Warning: %s '%s' (line %d) does not parse as Ruby: %d error(s), first at line %d, column %d",
			d.Kind, d.Name, d.Line, len(report.Errors), d.Line+first.Line-1, first.Column))
	}

	return nil
}

// runWatch extracts once, then again after every change to the schema file,
// until ctx is cancelled. Failed runs are reported and watching continues.
func runWatch(ctx context.Context, opts extractOptions, stdout, stderr io.Writer) error {
	w, err := watcher.NewSchemaWatcher(opts.SchemaPath, opts.Debounce)
	if err != nil {
		return fmt.Errorf("failed to watch '%s': %w", opts.SchemaPath, err)
	}
	defer w.Stop()

	run := func() {
		if err := runExtraction(ctx, opts, stdout, stderr); err != nil && !errors.Is(err, ErrNoMatch) {
			fmt.Fprintln(stderr, errorFmt("Error: %v", err))
		}
	}

	run()
	if err := w.Start(ctx, run); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !opts.Quiet {
		fmt.Fprintf(stderr, "Watching '%s' for changes (Ctrl+C to stop)...\n", opts.SchemaPath)
	}
	<-ctx.Done()
	return nil
}
