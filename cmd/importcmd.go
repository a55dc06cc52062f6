package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import leads from a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		var (
			rows []map[string]string
			err  error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			rows, err = readCSVRows(path)
		case ".xlsx":
			rows, err = readXLSXRows(path)
		default:
			return eris.Errorf("import: unsupported file type %q", filepath.Ext(path))
		}
		if err != nil {
			return err
		}
		zap.L().Info("file read", zap.String("path", path), zap.Int("rows", len(rows)))

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return addRows(ctx, st, rows)
	},
}

// readCSVRows reads a headered CSV into candidate rows.
func readCSVRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "import: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "import: read csv")
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recordsToRows(recs[0], recs[1:]), nil
}

// readXLSXRows reads the first sheet of a workbook into candidate rows. The
// first row is the header.
func readXLSXRows(path string) ([]map[string]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "import: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("import: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	var header []string
	var recs [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		recs = append(recs, cells)
	}
	if header == nil {
		return nil, nil
	}
	return recordsToRows(header, recs), nil
}

// recordsToRows zips records with the header, trimming values and skipping
// rows that are entirely blank.
func recordsToRows(header []string, recs [][]string) []map[string]string {
	var rows []map[string]string
	for _, rec := range recs {
		row := make(map[string]string, len(header))
		blank := true
		for i, h := range header {
			h = strings.TrimSpace(h)
			if h == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			row[h] = v
			if v != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

func init() {
	rootCmd.AddCommand(importCmd)
}
