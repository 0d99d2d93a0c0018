package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the sources the server can search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := newClient().Sources(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(sources)
			}

			for _, s := range sources {
				fmt.Println(s)
			}
			return nil
		},
	}
}
