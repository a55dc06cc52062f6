package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/pkg/sheets"
)

var setupSheetsCmd = &cobra.Command{
	Use:   "setup-sheets",
	Short: "Prepare the export destination schema",
	Long:  "Ensures the configured backend is ready: worksheet with styled header and dropdowns plus a Buckets summary tab for Sheets, a reachability check for Notion, a no-op for the mock backend.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		exp, err := newExporter(ctx)
		if err != nil {
			return err
		}
		if err := exp.SetupSchema(ctx); err != nil {
			return err
		}

		// Sheets gets the extra summary tab.
		if se, ok := exp.(*sheets.Exporter); ok {
			if err := se.EnsureBuckets(ctx); err != nil {
				return err
			}
		}

		zap.L().Info("export schema ready", zap.String("backend", cfg.Export.Backend))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupSheetsCmd)
}
