package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/models"
	"github/itish2003/deepsearch/services"
)

var (
	searchFuzzy         bool
	searchThreshold     int
	searchCaseSensitive bool
	searchColumns       []string
	searchDateRange     string
	searchDateColumns   []string
	searchFilters       []string
	searchExport        string
	searchMaxColumns    int

	datesStart   string
	datesEnd     string
	datesColumns []string
)

// searchCmd runs a combined search over every dataset
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all datasets for a value",
	Long: `Searches every loaded dataset for the query. Matching is substring based
unless --fuzzy is given. Results can be narrowed with a date range and
column filters, and exported to CSV or JSON.

Examples:
  deepsearch search "Anna Wong"
  deepsearch search "ana wong" --fuzzy --threshold 80
  deepsearch search wong --date-range 2024-01-01,2024-03-31 --filter Year=2024
  deepsearch search wong --export wong.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// datesCmd lists rows whose dates fall in a range
var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Find rows with a date in a range",
	Long: `Returns rows where a date column holds a date between --start and --end
(inclusive, YYYY-MM-DD). Date columns are detected automatically unless
--date-columns is given.`,
	Args: cobra.NoArgs,
	RunE: runDates,
}

func init() {
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "Use fuzzy matching")
	searchCmd.Flags().IntVar(&searchThreshold, "threshold", -1, "Minimum fuzzy score 0-100 (default from config)")
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "Match case exactly")
	searchCmd.Flags().StringSliceVar(&searchColumns, "columns", nil, "Only search these columns")
	searchCmd.Flags().StringVar(&searchDateRange, "date-range", "", "Keep results dated START,END (either may be empty)")
	searchCmd.Flags().StringSliceVar(&searchDateColumns, "date-columns", nil, "Columns holding dates")
	searchCmd.Flags().StringArrayVar(&searchFilters, "filter", nil, "Keep results whose column contains value (col=value)")
	searchCmd.Flags().StringVar(&searchExport, "export", "", "Write results to a .csv or .json file")
	searchCmd.Flags().IntVar(&searchMaxColumns, "max-columns", 0, "Show at most this many fields per result")

	datesCmd.Flags().StringVar(&datesStart, "start", "", "Start date YYYY-MM-DD")
	datesCmd.Flags().StringVar(&datesEnd, "end", "", "End date YYYY-MM-DD")
	datesCmd.Flags().StringSliceVar(&datesColumns, "date-columns", nil, "Columns holding dates")
}

func runSearch(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) == 1 {
		query = args[0]
	}

	start, end, err := parseDateRangeFlag(searchDateRange)
	if err != nil {
		return err
	}
	if query == "" && start == "" && end == "" {
		return fmt.Errorf("a query or --date-range is required")
	}
	filters, err := parseFilters(searchFilters)
	if err != nil {
		return err
	}
	threshold := searchThreshold
	if threshold < 0 {
		threshold = cfg.FuzzyThreshold
	}
	if threshold > 100 {
		return fmt.Errorf("--threshold must be between 0 and 100")
	}

	search, _, err := newSearchService(cmd.Context())
	if err != nil {
		return err
	}

	logger.Debug("running search",
		zap.String("query", query), zap.Bool("fuzzy", searchFuzzy), zap.Int("threshold", threshold))
	results, err := search.CombinedSearch(cmd.Context(), models.CombinedQuery{
		Query:         query,
		Fuzzy:         searchFuzzy,
		MinScore:      threshold,
		CaseSensitive: searchCaseSensitive,
		Columns:       searchColumns,
		StartDate:     start,
		EndDate:       end,
		DateColumns:   searchDateColumns,
		Filters:       filters,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printColumnSuggestions(cmd, search.UnknownColumns(searchColumns))
	services.DisplayResults(out, results, services.DisplayOptions{
		Query:      query,
		MaxColumns: searchMaxColumns,
		ShowScores: searchFuzzy,
	})

	if searchExport != "" && len(results) > 0 {
		if err := services.ExportResults(results, searchExport); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d results to %s\n", len(results), searchExport)
	}
	return nil
}

func runDates(cmd *cobra.Command, args []string) error {
	search, _, err := newSearchService(cmd.Context())
	if err != nil {
		return err
	}
	results, err := search.DateRangeSearch(cmd.Context(), datesStart, datesEnd, datesColumns)
	if err != nil {
		return err
	}
	label := fmt.Sprintf("dates %s to %s", orAny(datesStart), orAny(datesEnd))
	services.DisplayResults(cmd.OutOrStdout(), results, services.DisplayOptions{Query: label})
	return nil
}

// parseDateRangeFlag splits "START,END". Either side may be empty.
func parseDateRangeFlag(v string) (string, string, error) {
	if v == "" {
		return "", "", nil
	}
	start, end, ok := strings.Cut(v, ",")
	if !ok {
		return "", "", fmt.Errorf("--date-range must be START,END")
	}
	return strings.TrimSpace(start), strings.TrimSpace(end), nil
}

// parseFilters turns col=value pairs into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid --filter %q, want column=value", p)
		}
		filters[strings.TrimSpace(col)] = val
	}
	return filters, nil
}

func printColumnSuggestions(cmd *cobra.Command, unknown map[string][]string) {
	if len(unknown) == 0 {
		return
	}
	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if hints := unknown[name]; len(hints) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Unknown column %q, did you mean: %s?\n", name, strings.Join(hints, ", "))
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Unknown column %q\n", name)
		}
	}
}

func orAny(v string) string {
	if v == "" {
		return "any"
	}
	return v
}
