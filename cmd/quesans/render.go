package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/refstore"
)

// renderReport prints each graded answer followed by the final results.
func renderReport(w io.Writer, r report.Report, noColor bool) {
	for i, item := range r.Items {
		renderItem(w, i, item, noColor)
	}
	renderSummary(w, r, noColor)
}

// renderItem prints one graded answer; index is zero-based.
func renderItem(w io.Writer, index int, item report.Item, noColor bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle(fmt.Sprintf("Question %d:", index+1), noColor))
	fmt.Fprintf(w, "Q: %s\n", item.Record.Question)
	fmt.Fprintf(w, "Student's Answer: %s\n", item.Record.Answer)
	fmt.Fprintln(w, renderScore(item.Result.Score, noColor))
	fmt.Fprintln(w, renderMuted(item.Result.Feedback, noColor))
}

// renderSummary prints the totals and the raw evaluation of every answer.
func renderSummary(w io.Writer, r report.Report, noColor bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle("=== FINAL RESULTS ===", noColor))
	fmt.Fprintf(w, "Total Score: %s/%s\n", formatNumber(r.TotalScore), formatNumber(r.MaxScore))
	fmt.Fprintf(w, "Percentage: %.2f%%\n", r.DisplayPercentage())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scores for each question:")
	fmt.Fprintln(w, "-----------------")
	for i, item := range r.Items {
		fmt.Fprintf(w, "Question %d: %s\n", i+1, item.Result.Evaluation)
	}
}

// renderMatches prints reference answers returned by a similarity query.
func renderMatches(w io.Writer, matches []refstore.Match, noColor bool) {
	if len(matches) == 0 {
		fmt.Fprintln(w, renderMuted("No reference answers stored.", noColor))
		return
	}
	for _, m := range matches {
		fmt.Fprintln(w, renderTitle(fmt.Sprintf("[%s] %s (similarity %.3f)", m.ID, m.Question, m.Similarity), noColor))
		fmt.Fprintln(w, m.Answer)
	}
}

// renderScore colors a score by how good it is.
func renderScore(score float64, noColor bool) string {
	line := fmt.Sprintf("Score: %s/5", formatNumber(score))
	switch {
	case score >= 4:
		return stylize(line, noColor, lipgloss.Color("34"))
	case score >= 2:
		return stylize(line, noColor, lipgloss.Color("214"))
	default:
		return stylize(line, noColor, lipgloss.Color("160"))
	}
}

func renderTitle(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(text)
}

func renderMuted(text string, noColor bool) string {
	return stylize(text, noColor, lipgloss.Color("244"))
}

func renderSuccess(text string, noColor bool) string {
	return stylize(text, noColor, lipgloss.Color("34"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
