package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/ais/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd extracts the named definitions when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "ais [flags] NAME...",
	Short: "Extract table and view definitions from a Rails schema.rb",
	Long: `ais copies the create_table and create_view blocks you name out of a
Rails db/schema.rb into a small file you can hand to an AI assistant as
focused database context.

Blocks are copied verbatim, in the order they appear in the schema.`,
	Example: `  ais users orders
  ais -f db/schema.rb -o context.rb users
  ais --glob 'user_*' --stdout
  ais --watch users orders`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// The no-match report has already been printed.
		if !errors.Is(err, ErrNoMatch) {
			fmt.Fprintln(os.Stderr, errorFmt("Error: %v", err))
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .ais.yml in the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the explicit --config file, or .ais.yml from the working directory.
func loadConfig() (*config.Config, error) {
	var loader config.Loader
	if cfgFile != "" {
		loader = config.NewFileLoader(cfgFile)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		loader = config.NewLoader(wd)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
