package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/tgrenier/marketly/pkg/types"
)

func savedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved searches",
	}

	cmd.AddCommand(savedListCmd())
	cmd.AddCommand(savedCreateCmd())
	cmd.AddCommand(savedDeleteCmd())
	cmd.AddCommand(savedRunCmd())

	return cmd
}

func savedListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved searches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			saved, err := newClient().ListSavedSearches(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(saved)
			}
			return printSavedSearchesTable(saved)
		},
	}
}

func savedCreateCmd() *cobra.Command {
	var createSources []string

	cmd := &cobra.Command{
		Use:   "create <query>",
		Short: "Create a saved search",
		Example: `  mkt saved create "iphone 12"
  mkt saved create "canoe" --sources kijiji`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sources []domain.Source
			for _, name := range createSources {
				sources = append(sources, domain.Source(strings.ToLower(name)))
			}

			created, err := newClient().CreateSavedSearch(cmd.Context(), args[0], sources)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(created)
			}

			fmt.Println("Created saved search", created.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&createSources, "sources", nil, "sources to search (default all)")

	return cmd
}

func savedDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteSavedSearch(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted saved search", args[0])
			return nil
		},
	}
}

func savedRunCmd() *cobra.Command {
	var runLimit int

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a saved search and show fresh results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().RunSavedSearch(cmd.Context(), args[0], runLimit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(result)
			}

			fmt.Printf("%d results for %q\n\n", result.Count, result.Query)
			return printListingsTable(result.Results)
		},
	}
	cmd.Flags().IntVar(&runLimit, "limit", 20, "maximum number of results")

	return cmd
}
