package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github/itish2003/deepsearch/models"
)

// analyzeCmd describes the structure of one dataset
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Show shape, columns, types and sample rows of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

// columnsCmd lists the columns of one dataset
var columnsCmd = &cobra.Command{
	Use:   "columns [file]",
	Short: "List the columns of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumns,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	search, _, err := newSearchService(cmd.Context())
	if err != nil {
		return err
	}
	a, err := search.Analyze(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(out)
	title := r.NewStyle().Foreground(lipgloss.Color("#2196F3")).Bold(true)

	fmt.Fprintln(out, title.Render("File analysis for "+a.FileName+":"))
	fmt.Fprintf(out, "Shape: (%d, %d)\n", a.Shape[0], a.Shape[1])
	fmt.Fprintf(out, "Columns: %s\n", strings.Join(a.Columns, ", "))
	fmt.Fprintln(out, title.Render("Data types:"))
	for _, c := range a.Columns {
		fmt.Fprintf(out, "  %s: %s\n", c, a.DataTypes[c])
	}
	fmt.Fprintln(out, title.Render("Sample data:"))
	fmt.Fprintln(out, renderTable(r, a.Columns, sampleRows(a)))
	return nil
}

func runColumns(cmd *cobra.Command, args []string) error {
	search, _, err := newSearchService(cmd.Context())
	if err != nil {
		return err
	}
	columns, err := search.Columns(args[0])
	if err != nil {
		return err
	}
	for _, c := range columns {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

func sampleRows(a *models.Analysis) [][]string {
	rows := make([][]string, len(a.SampleData))
	for i, rec := range a.SampleData {
		row := make([]string, len(a.Columns))
		for j, c := range a.Columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return rows
}

func renderTable(r *lipgloss.Renderer, headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#2a3850"))).
		Headers(headers...).
		Rows(rows...).
		Render()
}
