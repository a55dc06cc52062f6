package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/enrich"
)

var (
	contactsLimit     int
	contactsDelaySecs float64
	contactsOnlyBlank bool
)

var enrichContactsCmd = &cobra.Command{
	Use:   "enrich-contacts",
	Short: "Discover contact emails and forms for rows with a website",
	Long:  "Scans a bounded set of pages per site, scores harvested emails, and fills Email and ContactFormURL. Findings are annotated in Notes.",
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

		delay := time.Duration(contactsDelaySecs * float64(time.Second))
		updates := newEnricher(delay).EnrichContacts(ctx, table, enrich.ContactOptions{
			Limit:     contactsLimit,
			OnlyBlank: contactsOnlyBlank,
		})
		if len(updates) == 0 {
			zap.L().Info("no contacts found")
			return nil
		}
		return addRows(ctx, st, updates)
	},
}

func init() {
	enrichContactsCmd.Flags().IntVar(&contactsLimit, "limit", 50, "max rows to process")
	enrichContactsCmd.Flags().Float64Var(&contactsDelaySecs, "delay", 0.5, "delay between page fetches (seconds)")
	enrichContactsCmd.Flags().BoolVar(&contactsOnlyBlank, "only-blank", false, "only fill rows with an empty Email")
	rootCmd.AddCommand(enrichContactsCmd)
}
