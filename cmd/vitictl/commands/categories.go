package commands

import (
	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [domain]",
	Short: "Prints the category keys and upstream codes of every domain, or of one.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domains := catalog.Domains
		if len(args) == 1 {
			d, err := parseDomainArg(args[0])
			if err != nil {
				return err
			}
			domains = []catalog.Domain{d}
		}
		renderCategories(cmd.OutOrStdout(), domains)
		return nil
	},
}
