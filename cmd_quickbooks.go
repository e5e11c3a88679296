package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/models"
	"github/itish2003/deepsearch/services"
)

var (
	qbNoClean  bool
	qbQuery    string
	qbYear     string
	qbCustomer string
)

// quickbooksCmd consolidates QuickBooks exports and optionally searches them
var quickbooksCmd = &cobra.Command{
	Use:   "quickbooks",
	Short: "Consolidate QuickBooks exports and search them",
	Long: `Merges every "YYYY QB.csv" export into consolidated_quickbooks.csv and
quickbooks.db, then optionally runs a fuzzy search restricted by year and
customer. Search results are saved to search_results_<query>.csv.`,
	Args: cobra.NoArgs,
	RunE: runQuickBooks,
}

func init() {
	quickbooksCmd.Flags().BoolVar(&qbNoClean, "no-clean", false, "Reuse existing consolidated files")
	quickbooksCmd.Flags().StringVar(&qbQuery, "query", "", "Search query to run against the combined data")
	quickbooksCmd.Flags().StringVar(&qbYear, "year", "", "Filter by year")
	quickbooksCmd.Flags().StringVar(&qbCustomer, "customer", "", "Filter by customer name")
}

func runQuickBooks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ws, err := services.NewWorkspace(cfg.DataDir)
	if err != nil {
		return err
	}

	if qbNoClean && ws.Exists(cfg.QuickBooksOutput) && ws.Exists(cfg.QuickBooksDB) {
		fmt.Fprintln(out, "Using existing processed QuickBooks data (--no-clean specified)")
	} else {
		ds, err := services.NewQuickBooksProcessor(cfg, logger).Consolidate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Processed %d QuickBooks records\n", ds.Len())
	}

	if qbQuery == "" {
		return nil
	}

	search, _, err := newSearchService(ctx)
	if err != nil {
		return err
	}
	filters := make(map[string]string)
	if qbYear != "" {
		filters["Year"] = qbYear
	}
	if qbCustomer != "" {
		filters["Customer"] = qbCustomer
	}

	logger.Info("running QuickBooks search", zap.String("query", qbQuery), zap.Any("filters", filters))
	results, err := search.CombinedSearch(ctx, models.CombinedQuery{
		Query:    qbQuery,
		Fuzzy:    true,
		MinScore: cfg.FuzzyThreshold,
		Filters:  filters,
	})
	if err != nil {
		return err
	}
	services.DisplayResults(out, results, services.DisplayOptions{Query: qbQuery, ShowScores: true})

	if len(results) == 0 {
		return nil
	}
	path, err := ws.Resolve("search_results_" + services.SafeFileName(qbQuery) + ".csv")
	if err != nil {
		return err
	}
	if err := services.ExportResults(results, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Search results saved to %s\n", path)
	return nil
}
