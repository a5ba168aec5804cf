package prune

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/loki/internal/models"
	"github.com/chmouel/loki/internal/theme"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/muesli/termenv"
)

const (
	reasonIndent   = 6
	minReasonWidth = 20
)

// RenderOptions controls how a report is printed.
type RenderOptions struct {
	Color bool
	// Width is the terminal width; 0 means 80 columns.
	Width int
	Theme *theme.Theme
}

type reportStyles struct {
	header  lipgloss.Style
	muted   lipgloss.Style
	status  map[models.OutcomeStatus]lipgloss.Style
	warning lipgloss.Style
}

func newReportStyles(w io.Writer, opts RenderOptions) reportStyles {
	r := lipgloss.NewRenderer(w)
	if opts.Color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	th := opts.Theme
	if th == nil {
		th = theme.GetTheme(theme.DefaultName())
	}

	return reportStyles{
		header:  r.NewStyle().Foreground(th.Accent).Bold(true),
		muted:   r.NewStyle().Foreground(th.MutedFg),
		warning: r.NewStyle().Foreground(th.WarnFg),
		status: map[models.OutcomeStatus]lipgloss.Style{
			models.OutcomeDeleted:     r.NewStyle().Foreground(th.SuccessFg).Bold(true),
			models.OutcomeWouldDelete: r.NewStyle().Foreground(th.WarnFg).Bold(true),
			models.OutcomeFailed:      r.NewStyle().Foreground(th.ErrorFg).Bold(true),
			models.OutcomeSkipped:     r.NewStyle().Foreground(th.MutedFg),
		},
	}
}

var statusMarks = map[models.OutcomeStatus]string{
	models.OutcomeDeleted:     "✓",
	models.OutcomeWouldDelete: "~",
	models.OutcomeFailed:      "✗",
	models.OutcomeSkipped:     "-",
}

// Render writes the per-branch outcome report.
func Render(w io.Writer, report *models.Report, opts RenderOptions) error {
	styles := newReportStyles(w, opts)
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	if len(report.Pruned) == 0 {
		b.WriteString(styles.header.Render("Nothing pruned upstream") + "\n")
	} else {
		refs := make([]string, len(report.Pruned))
		for i, ref := range report.Pruned {
			refs[i] = string(ref)
		}
		title := "Pruned remote-tracking refs"
		if report.DryRun {
			title = "Would prune remote-tracking refs"
		}
		b.WriteString(styles.header.Render(title+":") + " " + strings.Join(refs, ", ") + "\n")
	}

	nameWidth := 0
	for _, o := range report.Outcomes {
		nameWidth = max(nameWidth, lipgloss.Width(o.Branch))
	}
	statusWidth := len(models.OutcomeWouldDelete)

	for _, o := range report.Outcomes {
		style := styles.status[o.Status]
		badge := style.Render(fmt.Sprintf("%s %-*s", statusMarks[o.Status], statusWidth, o.Status))
		name := o.Branch + strings.Repeat(" ", nameWidth-lipgloss.Width(o.Branch))
		line := fmt.Sprintf("  %s  %s", badge, name)

		switch {
		case o.Status == models.OutcomeSkipped:
			line += "  " + styles.muted.Render(o.Reason)
		case o.Upstream != "":
			line += "  " + styles.muted.Render("("+string(o.Upstream)+")")
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")

		if o.Status == models.OutcomeFailed && o.Reason != "" {
			b.WriteString(formatReason(o.Reason, width) + "\n")
		}
	}

	if report.Warning != "" {
		b.WriteString(styles.warning.Render("warning:") + " " + report.Command + " reported an error after pruning\n")
		b.WriteString(formatReason(report.Warning, width) + "\n")
	}

	summary := fmt.Sprintf("%d deleted, %d skipped, %d failed",
		report.Count(models.OutcomeDeleted),
		report.Count(models.OutcomeSkipped),
		report.Count(models.OutcomeFailed))
	if report.DryRun {
		summary = fmt.Sprintf("%d would be deleted, %d skipped",
			report.Count(models.OutcomeWouldDelete),
			report.Count(models.OutcomeSkipped))
	}
	b.WriteString(styles.header.Render("Summary:") + " " + summary + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func formatReason(reason string, width int) string {
	wrapWidth := max(width-reasonIndent, minReasonWidth)
	// Break on words first, then hard-wrap anything longer than a line.
	wrapped := wrap.String(wordwrap.String(strings.TrimSpace(reason), wrapWidth), wrapWidth)
	return strings.TrimRight(indent.String(wrapped, reasonIndent), " \n")
}
