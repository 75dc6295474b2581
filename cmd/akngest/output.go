package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/akngest/internal/pipeline"
	"github.com/dgallion1/akngest/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case string(pipeline.StatusCompleted):
		return successStyle
	case string(pipeline.StatusPartial):
		return warnStyle
	default:
		return errorStyle
	}
}

// renderJob prints the summary box for a finished conversion followed by
// the failed documents, warnings and written files.
func renderJob(w io.Writer, snap pipeline.JobSnapshot, written []string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", titleStyle.Render(snap.Filename),
		statusStyle(string(snap.Status)).Render(string(snap.Status)),
		dimStyle.Render(snap.ID))
	fmt.Fprintf(&b, "%s %d  %s %d", dimStyle.Render("Pages:"), snap.Progress.Pages, dimStyle.Render("TOC entries:"), snap.Progress.Entries)
	if s := snap.Summary; s != nil {
		b.WriteString("\n")
		b.WriteString(table([][]string{
			{"Documents", "Failed", "Recitals", "Sections", "Paragraphs", "Sub-paragraphs", "Annexes", "Warnings"},
			{
				fmt.Sprint(s.Documents), fmt.Sprint(s.Failed), fmt.Sprint(s.Recitals), fmt.Sprint(s.Sections),
				fmt.Sprint(s.Paragraphs), fmt.Sprint(s.SubParagraphs), fmt.Sprint(s.Annexes), fmt.Sprint(s.Warnings),
			},
		}))
	}
	if snap.Progress.Published > 0 {
		fmt.Fprintf(&b, "\n%s %d", dimStyle.Render("Published:"), snap.Progress.Published)
	}
	fmt.Fprintln(w, boxStyle.Render(b.String()))

	for _, f := range snap.Failures {
		fmt.Fprintf(w, "%s %s: %s\n", errorStyle.Render("✗"), f.DocumentID, f.Reason)
	}
	for _, wn := range snap.Warnings {
		fmt.Fprintf(w, "%s %s p.%d: %s (%s)\n", warnStyle.Render("!"), wn.DocumentID, wn.Page, wn.Reason, wn.Kind)
	}
	for _, e := range snap.Progress.Errors {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), e)
	}
	for _, p := range written {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), p)
	}
}

// renderRuns prints one line per history run.
func renderRuns(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no runs recorded"))
		return
	}
	rows := [][]string{{"ID", "Source", "Status", "Documents", "Failed", "Started", "Took"}}
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID, r.Source, r.Status,
			fmt.Sprint(r.Summary.Documents), fmt.Sprint(r.Summary.Failed),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
		})
	}
	fmt.Fprintln(w, table(rows))
}

// renderRun prints one run and its documents.
func renderRun(w io.Writer, run *store.Run, docs []store.DocumentRecord) {
	fmt.Fprintf(w, "%s %s  %s\n", titleStyle.Render(run.Source), statusStyle(run.Status).Render(run.Status), dimStyle.Render(run.ID))
	if run.Error != "" {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), run.Error)
	}
	if len(docs) == 0 {
		return
	}
	rows := [][]string{{"", "Document", "Title", "Warnings"}}
	for _, d := range docs {
		mark, title := successStyle.Render("✓"), d.Title
		if !d.OK {
			mark, title = errorStyle.Render("✗"), d.Reason
		}
		rows = append(rows, []string{mark, d.DocumentID, title, fmt.Sprint(d.Warnings)})
	}
	fmt.Fprintln(w, table(rows))
}

// table lays rows out in aligned columns; the first row is the header.
func table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	lines := make([]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			st := cellStyle.Width(widths[i] + 2)
			if r == 0 {
				st = st.Inherit(dimStyle)
			}
			cells[i] = st.Render(cell)
		}
		lines[r] = strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " ")
	}
	return strings.Join(lines, "\n")
}
