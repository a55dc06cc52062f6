package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Annotate sparse rows with their site title",
	Long:  "Fetches the homepage of every row that has a Website but no meaningful Notes, and records the page title in Notes.",
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

		updates := newEnricher(0).SiteMeta(ctx, table)
		if len(updates) == 0 {
			zap.L().Info("no rows needed enrichment")
			return nil
		}
		return addRows(ctx, st, updates)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
