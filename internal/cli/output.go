package cli

import "github.com/fatih/color"

// Console formatting. color disables itself when stdout is not a terminal.
var (
	successFmt = color.New(color.FgGreen).SprintfFunc()
	warnFmt    = color.New(color.FgYellow).SprintfFunc()
	errorFmt   = color.New(color.FgRed, color.Bold).SprintfFunc()
	kindFmt    = color.New(color.FgCyan).SprintFunc()
	lineFmt    = color.New(color.Faint).SprintfFunc()
)
