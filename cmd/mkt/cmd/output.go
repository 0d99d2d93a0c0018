package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(listings []domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SOURCE\tTITLE\tPRICE\tSCORE\tLOCATION\n")
	for i := range listings {
		l := &listings[i]
		price := "-"
		if l.Price != nil {
			price = fmt.Sprintf("$%.2f %s", l.Price.Amount, l.Price.Currency)
		}
		tw.writef("%s\t%s\t%s\t%.1f\t%s\n",
			l.Source,
			truncate(l.Title, 50),
			price,
			l.Score,
			l.Location,
		)
	}
	return tw.finish()
}

func printSavedSearchesTable(saved []domain.SavedSearch) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tQUERY\tSOURCES\tCREATED\n")
	for i := range saved {
		s := &saved[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			s.ID,
			truncate(s.Query, 40),
			joinSources(s.Sources),
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func joinSources(sources []domain.Source) string {
	out := ""
	for i, s := range sources {
		if i > 0 {
			out += ","
		}
		out += string(s)
	}
	return out
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
