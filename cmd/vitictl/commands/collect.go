package commands

import (
	"fmt"

	"github.com/dgallion1/vitigest/internal/config"
	"github.com/dgallion1/vitigest/internal/snapshot"
	"github.com/dgallion1/vitigest/internal/snapshot/sqlite"
	"github.com/spf13/cobra"
)

var dbPath string

func init() {
	addYearFlag(collectCmd)
	collectCmd.Flags().StringVar(&dbPath, "db", "", "The sqlite database to archive into (default: $SNAPSHOT_DB).")
	historyCmd.Flags().StringVar(&dbPath, "db", "", "The sqlite database to read (default: $SNAPSHOT_DB).")
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(historyCmd)
}

func openArchive(fallback string) (*sqlite.Store, error) {
	path := dbPath
	if path == "" {
		path = fallback
	}
	store, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return store, nil
}

var collectCmd = &cobra.Command{
	Use:   "collect [--year <year>] [--db <path>]",
	Short: "Extracts every domain and category and archives the outcomes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		y, err := yearArg()
		if err != nil {
			return err
		}
		svc, cfg, log, err := newService()
		if err != nil {
			return err
		}
		store, err := openArchive(cfg.SnapshotDB)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, rows, err := snapshot.Collect(cmd.Context(), svc, store, y, log)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range rows {
			if r.Error != "" {
				failed++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d outcomes archived, %d failed\n", runID, len(rows), failed)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [run-id] [--db <path>]",
	Short: "Lists archived runs, or the outcomes of one run.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(config.Load().SnapshotDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			renderRuns(cmd.OutOrStdout(), runs)
			return nil
		}

		rows, err := store.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("no run %q in archive", args[0])
		}
		renderRows(cmd.OutOrStdout(), rows)
		return nil
	},
}
