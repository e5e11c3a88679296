package services

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github/itish2003/deepsearch/models"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// DisplayOptions controls terminal rendering of results.
type DisplayOptions struct {
	Query      string
	MaxColumns int // 0 shows every field
	ShowScores bool
}

// displayStyles are bound to the renderer of the output writer, so plain
// writers such as files and buffers get no escape codes.
type displayStyles struct {
	header lipgloss.Style
	title  lipgloss.Style
	meta   lipgloss.Style
	key    lipgloss.Style
}

func newDisplayStyles(w io.Writer) displayStyles {
	r := lipgloss.NewRenderer(w)
	return displayStyles{
		header: r.NewStyle().Foreground(colorSuccess).Bold(true),
		title:  r.NewStyle().Foreground(colorInfo),
		meta:   r.NewStyle().Foreground(colorWarning),
		key:    r.NewStyle().Foreground(colorSuccess),
	}
}

// DisplayResults prints results one block per record: the source, the score
// when requested, the matching value, then every non-empty data field.
func DisplayResults(w io.Writer, results []models.Record, opts DisplayOptions) {
	st := newDisplayStyles(w)
	suffix := ""
	if opts.Query != "" {
		suffix = " for query: " + opts.Query
	}

	if len(results) == 0 {
		fmt.Fprintln(w, st.meta.Render("No results found"+suffix+"."))
		return
	}
	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("Found %d results%s", len(results), suffix)))

	for i, rec := range results {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Result %d/%d:", i+1, len(results))))
		fmt.Fprintln(w, st.meta.Render("Source: "+rec.File))
		if opts.ShowScores && rec.MatchScore != nil && *rec.MatchScore != 0 {
			fmt.Fprintln(w, st.meta.Render(fmt.Sprintf("Match score: %d%%", *rec.MatchScore)))
		}
		if rec.MatchingValue != "" {
			fmt.Fprintln(w, st.meta.Render("Matching value: "+rec.MatchingValue))
		}

		var columns []string
		for _, c := range rec.Columns {
			if c != models.FieldFile && c != models.FieldMatchScore && c != models.FieldMatchingValue {
				columns = append(columns, c)
			}
		}
		if opts.MaxColumns > 0 && len(columns) > opts.MaxColumns {
			fmt.Fprintln(w, st.meta.Render(fmt.Sprintf("(Showing %d of %d fields)", opts.MaxColumns, len(columns))))
			columns = columns[:opts.MaxColumns]
		}
		for _, c := range columns {
			if v := rec.Values[c]; v != "" {
				fmt.Fprintf(w, "%s: %s\n", st.key.Render(c), v)
			}
		}
	}
}
