package cli

import (
	"fmt"
	"os"
	"time"

	"opticshop/internal/exporter"
	"opticshop/internal/importer"
	categoryrepo "opticshop/internal/repository/category"
	glassesrepo "opticshop/internal/repository/glasses"
	"opticshop/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog",
		Long:  "Upsert the embedded demo categories and glasses. Running it twice changes nothing.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := seed.Apply(cmd.Context(), pool, newLogger(cmd)); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed applied")
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import glasses from a CSV file",
		Long:  "Rows are matched by identifier: known glasses are updated, new ones created. Missing categories are created on the fly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := newLogger(cmd)
			imp := importer.NewCSVImporter(f, glassesrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool, logger))

			start := time.Now()
			count, err := imp.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d glasses in %s\n", count, time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Path to the glasses CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			list, err := glassesrepo.NewPostgres(pool, newLogger(cmd)).List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list glasses: %w", err)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create file: %w", err)
			}
			if err := exporter.WriteXLSX(f, list); err != nil {
				f.Close()
				return fmt.Errorf("write workbook: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d glasses to %s\n", len(list), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "glasses.xlsx", "Destination .xlsx file")
	return cmd
}
