package commands

import (
	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/spf13/cobra"
)

var getJSON bool

func init() {
	addYearFlag(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Print the result as JSON instead of a table.")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <domain> [category] [--year <year>] [--json]",
	Short: "Extracts one page: production, commercialization, or one category of processing, import or export.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDomainArg(args[0])
		if err != nil {
			return err
		}
		var category string
		if len(args) == 2 {
			category = args[1]
		}
		y, err := yearArg()
		if err != nil {
			return err
		}
		// Reject bad keys before touching the network or config.
		if d.HasCategories() || category != "" {
			if _, err := catalog.Lookup(d, category); err != nil {
				return err
			}
		}

		svc, _, _, err := newService()
		if err != nil {
			return err
		}
		res, err := svc.Get(cmd.Context(), d, category, y)
		if err != nil {
			return err
		}

		if getJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		renderResult(cmd.OutOrStdout(), d, res)
		return nil
	},
}
