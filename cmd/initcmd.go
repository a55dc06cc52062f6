package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the lead table backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		zap.L().Info("store initialized",
			zap.String("driver", cfg.Store.Driver),
			zap.String("dsn", cfg.Store.DSN()),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
