package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and boxes using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	if r.IsCheck() {
		w.WriteString(f.formatFindings(r))
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if len(r.Errors) > 0 {
		w.WriteString(f.formatErrors(r))
	}

	return nil
}

// formatHeader builds the header box with the operation and its target.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	lines := []string{
		label("Operation:", ValueStyle.Bold(true).Render(r.Operation)),
		label("Root:", ValueStyle.Render(r.Root)),
	}
	if r.ListPath != "" {
		lines = append(lines, label("Listing:", ValueStyle.Render(r.ListPath)))
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatFindings lists each finding, colored by outcome.
func (f *PrettyFormatter) formatFindings(r *Result) string {
	if len(r.Findings) == 0 {
		return SuccessStyle.Render("  No differences found") + "\n"
	}

	var sb strings.Builder
	for _, finding := range r.Findings {
		sb.WriteString("  ")
		sb.WriteString(outcomeStyle(finding.Outcome).Render(finding.Message()))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatFooter builds the summary box.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	s := r.Stats
	var parts []string

	switch {
	case r.Operation == "touchdir":
		parts = append(parts,
			label("Entries:", count(s.Entries)),
			label("Touched:", count(s.Touched)),
			label("Skipped:", count(s.Skipped)),
		)
	case r.IsCheck():
		parts = append(parts,
			label("Files:", count(s.Files)),
			label("New:", count(s.New)),
			label("Deleted:", count(s.Deleted)),
			label("Modified:", count(s.Modified)),
			label("Mismatched:", count(s.Mismatched)),
		)
	default:
		parts = append(parts,
			label("Entries:", count(s.Entries)),
			label("New:", count(s.New)),
			label("Modified:", count(s.Modified)),
			label("Deleted:", count(s.Deleted)),
		)
	}

	if s.Hashed > 0 {
		parts = append(parts, label("Hashed:",
			CountStyle.Render(fmt.Sprintf("%s files, %s", humanize.Comma(int64(s.Hashed)), humanize.IBytes(uint64(s.BytesHashed))))))
	}
	parts = append(parts, MutedStyle.Render("in "+formatDuration(s.Duration)))

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatErrors builds the block of per-file failures.
func (f *PrettyFormatter) formatErrors(r *Result) string {
	var sb strings.Builder

	sb.WriteString(ErrorStyle.Bold(true).Render(fmt.Sprintf("%d file(s) could not be processed:", len(r.Errors))))
	sb.WriteString("\n")
	for _, e := range r.Errors {
		sb.WriteString(ErrorStyle.Render("  " + e.Error()))
		sb.WriteString("\n")
	}
	return sb.String()
}

func outcomeStyle(o reconcile.Outcome) lipgloss.Style {
	switch o {
	case reconcile.NewFile:
		return SuccessStyle
	case reconcile.Modified:
		return WarningStyle
	case reconcile.Deleted, reconcile.ParityMismatch, reconcile.DigestMismatch, reconcile.Unreadable:
		return ErrorStyle
	default:
		return MutedStyle
	}
}

func label(name, value string) string {
	return LabelStyle.Render(name) + " " + value
}

func count(n int) string {
	return CountStyle.Render(humanize.Comma(int64(n)))
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
