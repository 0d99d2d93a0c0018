package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/tgrenier/marketly/pkg/types"
)

func searchCmd() *cobra.Command {
	var (
		searchLimit   int
		searchSources []string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search marketplaces for listings",
		Long:  "Runs a unified search across the configured marketplaces and displays ranked results.",
		Example: `  mkt search "iphone 12"
  mkt search "standing desk" --sources kijiji --limit 25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCmd(cmd, args[0], searchSources, searchLimit)
		},
	}
	cmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	cmd.Flags().StringSliceVar(&searchSources, "sources", nil, "sources to search (default all)")

	return cmd
}

func runSearchCmd(cmd *cobra.Command, query string, sourceNames []string, limit int) error {
	var sources []domain.Source
	for _, name := range sourceNames {
		sources = append(sources, domain.Source(strings.ToLower(name)))
	}

	result, err := newClient().Search(cmd.Context(), query, sources, limit)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(result)
	}

	fmt.Printf("%d results for %q\n\n", result.Count, result.Query)
	return printListingsTable(result.Results)
}
