package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootState holds configuration shared by all commands, resolved once in
// PersistentPreRunE.
type rootState struct {
	configDir string
	config    *viper.Viper
}

// Execute runs the cutlist CLI and returns an error if any command fails.
//
// The root command sets up logging based on --verbose and loads config.yaml
// from the config directory (--config-dir, default ~/.cutlist). The logger
// is attached to the context and accessible via loggerFromContext.
func Execute() error {
	var verbose bool
	state := &rootState{}

	root := &cobra.Command{
		Use:          "cutlist",
		Short:        "cutlist plans material cuts from a piece list and stock inventory",
		Long:         `cutlist is a cut-list optimizer for sheet goods and linear lumber. It packs required pieces onto available stock, plans the saw-cut sequence, and reports layouts, purchase lists, and costs.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			if state.configDir == "" {
				state.configDir = defaultConfigDir()
			}
			v, err := loadConfig(state.configDir)
			if err != nil {
				return err
			}
			state.config = v
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("cutlist %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&state.configDir, "config-dir", "", "configuration directory (default ~/.cutlist)")

	root.AddCommand(newOptimizeCmd(state))
	root.AddCommand(newEstimateCmd(state))
	root.AddCommand(newCompareCmd(state))
	root.AddCommand(newImportCmd())
	root.AddCommand(newHistoryCmd(state))
	root.AddCommand(newBackupCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(context.Background())
}
