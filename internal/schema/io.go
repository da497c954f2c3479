package schema

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Separator is placed between rendered definitions.
const Separator = "\n\n"

// ReadFile loads a schema file into memory.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read schema '%s': %w", path, err)
	}
	return string(data), nil
}

// Render concatenates the source of each definition, separated by a blank
// line and terminated by a newline. An empty slice renders as "".
func Render(defs []Definition) string {
	if len(defs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range defs {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(d.Source)
	}
	b.WriteByte('\n')
	return b.String()
}

// Write renders defs to w.
func Write(w io.Writer, defs []Definition) error {
	_, err := io.WriteString(w, Render(defs))
	return err
}

// WriteFile renders defs into the file at path, replacing its contents.
func WriteFile(path string, defs []Definition) error {
	if err := os.WriteFile(path, []byte(Render(defs)), 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}
