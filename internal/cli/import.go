package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/model"
	"github.com/digitalworkshop/cutlist/internal/project"
)

func newImportCmd() *cobra.Command {
	var saveProject string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a piece list and print what was read",
		Long: `Import reads a piece list from CSV, Excel, or DXF, prints the parsed
pieces, and optionally saves them as a new project file. Useful for checking
column mapping before optimizing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			pieces, err := loadPiecesFile(logger, args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Label\tLength\tWidth\tQty\tMaterial\tGrain\tPriority\n")
			for _, p := range pieces {
				prio := ""
				if p.Priority {
					prio = "yes"
				}
				fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%d\t%s\t%s\t%s\n",
					p.Label, p.Length, p.Width, p.Quantity, p.Material, p.Grain, prio)
			}
			w.Flush()
			fmt.Printf("\n%d pieces imported\n", len(pieces))

			if saveProject != "" {
				proj := model.NewProject("")
				proj.Pieces = pieces
				// New projects inherit the user's saved defaults
				if cfg, err := project.LoadAppConfig(project.DefaultConfigPath()); err == nil {
					cfg.ApplyToSettings(&proj.Settings)
				}
				if err := project.SaveProject(saveProject, proj); err != nil {
					return fmt.Errorf("save project: %w", err)
				}
				logger.Info("saved project", "path", saveProject)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&saveProject, "save-project", "", "save imported pieces as a project file")

	return cmd
}
