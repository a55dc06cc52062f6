package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the lead table to the configured backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		table, err := st.Load(ctx)
		if err != nil {
			return err
		}

		rows := make([]map[string]string, len(table))
		for i, l := range table {
			rows[i] = l.Map()
		}

		exp, err := newExporter(ctx)
		if err != nil {
			return err
		}
		if err := exp.UpsertRows(ctx, rows, "Key"); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("backend", cfg.Export.Backend),
			zap.Int("rows", len(rows)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
