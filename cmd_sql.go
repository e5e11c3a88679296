package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github/itish2003/deepsearch/services"
)

var sqlDB string

// sqlCmd runs ad hoc SQL against one of the generated databases
var sqlCmd = &cobra.Command{
	Use:   "sql [query]",
	Short: "Run a SQL query against a generated SQLite database",
	Long: `Executes a statement against schedules.db (default) or any database
given with --db and prints the rows as a table.

Example:
  deepsearch sql "SELECT schedule_date, COUNT(*) AS jobs FROM jobs GROUP BY schedule_date"
  deepsearch sql --db quickbooks.db "SELECT Customer, Total FROM quickbooks WHERE Year = '2024'"`,
	Args: cobra.ExactArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().StringVar(&sqlDB, "db", "", "Database file (default: schedules.db)")
}

func runSQL(cmd *cobra.Command, args []string) error {
	db := sqlDB
	if db == "" {
		db = cfg.ScheduleDB
	}
	ds, err := services.QueryDatabase(cmd.Context(), cfg.Path(db), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ds.Columns) == 0 {
		fmt.Fprintln(out, "OK")
		return nil
	}
	fmt.Fprintln(out, renderTable(lipgloss.NewRenderer(out), ds.Columns, ds.Rows))
	fmt.Fprintf(out, "%d rows\n", ds.Len())
	return nil
}
