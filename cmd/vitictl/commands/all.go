package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	addYearFlag(allCmd)
	rootCmd.AddCommand(allCmd)
}

var allCmd = &cobra.Command{
	Use:   "all <processing|import|export> [--year <year>]",
	Short: "Extracts every category of a domain and prints the aggregate as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDomainArg(args[0])
		if err != nil {
			return err
		}
		if !d.HasCategories() {
			return fmt.Errorf("%s has no categories; use `vitictl get %s`", d, d)
		}
		y, err := yearArg()
		if err != nil {
			return err
		}

		svc, _, _, err := newService()
		if err != nil {
			return err
		}
		agg, err := svc.All(cmd.Context(), d, y)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), agg)
	},
}
