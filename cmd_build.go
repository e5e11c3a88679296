package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github/itish2003/deepsearch/services"
)

var buildTargets = []string{"notes", "schedules", "quickbooks", "schedule-db"}

// buildCmd regenerates one derived dataset or database
var buildCmd = &cobra.Command{
	Use:   "build [target]",
	Short: "Regenerate a derived dataset or database",
	Long: `Rebuilds one derived artifact in the data directory:

  notes        structured contacts from the raw notes export
  schedules    consolidated jobs from the daily schedule folder
  quickbooks   consolidated QuickBooks CSV and quickbooks.db
  schedule-db  schedules.db and its metadata from consolidated schedules`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: buildTargets,
	RunE:      runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch args[0] {
	case "notes":
		n := services.NewNotesStructurer(cfg, logger)
		if err := n.Generate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Data saved to %s\n", cfg.Path(n.Output()))
	case "schedules":
		p := services.NewScheduleProcessor(cfg, logger)
		if err := p.Generate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved consolidated data to %s\n", cfg.Path(p.Output()))
	case "quickbooks":
		ds, err := services.NewQuickBooksProcessor(cfg, logger).Consolidate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Processed %d QuickBooks records into %s and %s\n",
			ds.Len(), cfg.Path(cfg.QuickBooksOutput), cfg.Path(cfg.QuickBooksDB))
	case "schedule-db":
		meta, err := services.NewScheduleDatabase(cfg, logger).Build(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Database created: %s (%d jobs)\n", cfg.Path(cfg.ScheduleDB), meta.TotalRecords)
		if len(meta.DateColumns) > 0 {
			fmt.Fprintf(out, "Date columns: %s\n", strings.Join(meta.DateColumns, ", "))
		}
		if len(meta.ClientColumns) > 0 {
			fmt.Fprintf(out, "Client columns: %s\n", strings.Join(meta.ClientColumns, ", "))
		}
	}
	return nil
}
