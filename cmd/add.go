package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lead-lab/leadlab/internal/model"
)

// exampleRow provides the defaults shown by the interactive prompt.
var exampleRow = map[string]string{
	"Company":   "Acme Brand",
	"Website":   "https://example.com",
	"Email":     "jane@example.com",
	"Category":  "Podcast",
	"WhyFit":    "Sponsors similar shows; strong brand alignment",
	"SourceURL": "https://example.com/sponsorships",
	"Notes":     "",
}

// promptFields is the ask order; Status and DateAdded are stamped, the key
// columns are computed.
var promptFields = []string{
	"Company", "Website", "Email", "Category", "WhyFit", "SourceURL", "Notes",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a lead interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		row, err := promptRow(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		row["Status"] = "New"
		row["DateAdded"] = model.Today()

		return addRows(ctx, st, []map[string]string{row})
	},
}

// promptRow asks for each field, falling back to the example default when
// the answer is blank.
func promptRow(in io.Reader, out io.Writer) (map[string]string, error) {
	fmt.Fprintln(out, "\nAdd a lead (press Enter to accept the shown default)")
	fmt.Fprintln(out)

	r := bufio.NewReader(in)
	row := make(map[string]string)
	for _, field := range promptFields {
		fmt.Fprintf(out, "%s [%s]: ", field, exampleRow[field])
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		val := strings.TrimSpace(line)
		if val == "" {
			val = exampleRow[field]
		}
		row[field] = val
		if err == io.EOF {
			break
		}
	}
	return row, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
}
