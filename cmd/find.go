package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-lab/leadlab/internal/finder"
)

var (
	findURLs     []string
	findURLsFile string
	findTopic    string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Extract candidate leads from list or article pages",
	Long:  "Parses sponsor/brand roundup pages and adds their external links as candidate leads for review.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		urls := append([]string{}, findURLs...)
		if findURLsFile != "" {
			fromFile, err := readURLsFile(findURLsFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return eris.New("no URLs provided, use --urls or --urls-file")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rows := finder.New(newFetcher(0)).FromURLs(ctx, urls, findTopic)
		if len(rows) == 0 {
			zap.L().Info("finder produced no candidates, try different sources")
			return nil
		}
		zap.L().Info("finder candidates collected",
			zap.Int("candidates", len(rows)),
			zap.Int("urls", len(urls)),
		)
		return addRows(ctx, st, rows)
	},
}

// readURLsFile reads one URL per line, skipping blanks and # comments.
func readURLsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "find: open urls file")
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "find: read urls file")
	}
	return urls, nil
}

func init() {
	findCmd.Flags().StringSliceVar(&findURLs, "urls", nil, "list/article URLs to parse")
	findCmd.Flags().StringVar(&findURLsFile, "urls-file", "", "text file with one URL per line")
	findCmd.Flags().StringVar(&findTopic, "topic", "podcast", "category hint: podcast, network, or event")
	rootCmd.AddCommand(findCmd)
}
