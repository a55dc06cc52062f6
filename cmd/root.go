package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/config"
	"github.com/lead-lab/leadlab/internal/enrich"
	"github.com/lead-lab/leadlab/internal/export"
	"github.com/lead-lab/leadlab/internal/fetch"
	"github.com/lead-lab/leadlab/internal/merge"
	"github.com/lead-lab/leadlab/internal/store"
	"github.com/lead-lab/leadlab/pkg/notion"
	"github.com/lead-lab/leadlab/pkg/sheets"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadlab",
	Short: "Research-only sponsorship lead generator",
	Long:  "Collects, deduplicates, and enriches sponsorship leads in a local table, then exports to Google Sheets, Notion, or a local CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initStore opens the configured table backend.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN())
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// newFetcher builds the polite page fetcher from config. delayOverride, when
// positive, takes precedence over the configured delay.
func newFetcher(delayOverride time.Duration) *fetch.Fetcher {
	delay := time.Duration(cfg.Enrich.DelayMillis) * time.Millisecond
	if delayOverride > 0 {
		delay = delayOverride
	}
	return fetch.New(fetch.Options{
		Timeout:       time.Duration(cfg.Enrich.TimeoutSecs) * time.Second,
		Delay:         delay,
		UserAgent:     cfg.Enrich.UserAgent,
		RespectRobots: cfg.Enrich.RespectRobots,
	})
}

// newEnricher builds a site scanner with a fresh per-run cache.
func newEnricher(delayOverride time.Duration) *enrich.Enricher {
	return enrich.NewEnricher(newFetcher(delayOverride), cfg.Enrich.Pages)
}

// newExporter selects the export backend from config.
func newExporter(ctx context.Context) (export.Exporter, error) {
	switch cfg.Export.Backend {
	case "", "mock":
		return export.NewMock(cfg.Export.MockPath), nil
	case "sheets":
		if cfg.Sheets.SpreadsheetID == "" {
			return nil, eris.New("spreadsheet ID is required (LEADLAB_SHEETS_SPREADSHEET_ID)")
		}
		api, err := sheets.NewAPI(ctx, cfg.Sheets.ServiceAccountJSON, cfg.Sheets.SpreadsheetID)
		if err != nil {
			return nil, err
		}
		return sheets.NewExporter(api, cfg.Sheets.WorksheetName), nil
	case "notion":
		if cfg.Notion.Token == "" {
			return nil, eris.New("notion token is required (LEADLAB_NOTION_TOKEN)")
		}
		if cfg.Notion.LeadDB == "" {
			return nil, eris.New("notion lead DB ID is required (LEADLAB_NOTION_LEAD_DB)")
		}
		return notion.NewExporter(notion.NewClient(cfg.Notion.Token), cfg.Notion.LeadDB), nil
	default:
		return nil, eris.Errorf("unknown export backend %q", cfg.Export.Backend)
	}
}

// addRows runs candidate rows through the merge engine and logs the outcome.
func addRows(ctx context.Context, st store.Store, rows []map[string]string) error {
	report, err := merge.NewEngine(st).AddRows(ctx, rows)
	if err != nil {
		return err
	}
	zap.L().Info("merge complete",
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
	)
	return nil
}
