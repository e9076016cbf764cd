package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/project"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the app config and stock catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export FILE",
		Short: "Write config and catalog to a single backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("load app config: %w", err)
			}
			catalog, _, err := project.LoadOrCreateCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			if err := project.ExportAllData(args[0], cfg, catalog); err != nil {
				return err
			}
			logger.Info("exported backup", "path", args[0], "presets", len(catalog.Stocks))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Restore config and catalog from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}

			if err := project.SaveAppConfig(project.DefaultConfigPath(), backup.Config); err != nil {
				return fmt.Errorf("save app config: %w", err)
			}
			catalogPath, err := project.DefaultCatalogPath()
			if err != nil {
				return err
			}
			if err := project.SaveCatalog(catalogPath, backup.Catalog); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}

			logger.Info("restored backup", "created", backup.CreatedAt, "presets", len(backup.Catalog.Stocks))
			return nil
		},
	})

	return cmd
}
