package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/ais/internal/schema"
)

var (
	listFile   string
	listKind   string
	listFormat string
)

// listCmd prints every definition the scanner finds.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tables and views declared in the schema",
	Long: `List every create_table and create_view block found in the schema file,
with its kind and the line it starts on.

Example:
  ais list
  ais list --kind view -f db/structure_views.rb
  ais list --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFile, "file", "f", "db/schema.rb", "schema file to read")
	listCmd.Flags().StringVar(&listKind, "kind", "", "only list this kind: table or view")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("file") {
		cfg.Schema.Path = listFile
	}

	var kind schema.Kind
	if listKind != "" {
		k, ok := schema.ParseKind(listKind)
		if !ok {
			return fmt.Errorf("--kind must be 'table' or 'view', got '%s'", listKind)
		}
		kind = k
	}

	scanner := schema.NewScanner(schema.KeywordOptions(cfg.Extract.TableKeywords, cfg.Extract.ViewKeywords)...)
	return listDefinitions(cmd.OutOrStdout(), cfg.Schema.Path, scanner, kind, listFormat)
}

// listEntry is one definition in json/yaml list output.
type listEntry struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Line int    `json:"line" yaml:"line"`
}

// listDefinitions prints definitions of kind (all kinds when zero). The text
// format is one "kind  name  (line N)" row per definition.
func listDefinitions(w io.Writer, path string, scanner *schema.Scanner, kind schema.Kind, format string) error {
	switch format {
	case "", "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format '%s' (want text, json or yaml)", format)
	}

	contents, err := schema.ReadFile(path)
	if err != nil {
		return err
	}

	defs := scanner.Scan(contents)
	if kind != 0 {
		defs = schema.FilterKind(defs, kind)
	}

	switch format {
	case "json", "yaml":
		return writeStructured(w, defs, format)
	}

	for _, d := range defs {
		fmt.Fprintf(w, "%s  %s  %s\n", kindFmt(fmt.Sprintf("%-5s", d.Kind)), d.Name, lineFmt("(line %d)", d.Line))
	}
	return nil
}

func writeStructured(w io.Writer, defs []schema.Definition, format string) error {
	entries := make([]listEntry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, listEntry{Name: d.Name, Kind: d.Kind.String(), Line: d.Line})
	}

	var (
		data []byte
		err  error
	)
	if format == "yaml" {
		data, err = yaml.Marshal(entries)
	} else {
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal definitions to %s: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}
