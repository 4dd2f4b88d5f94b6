// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Smithk0/job-fr/internal/types"
	"github.com/dustin/go-humanize"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer writes human-readable summaries of jobs and applications.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJob outputs a job posting: a header box with the title and facts, then
// the description and the list sections in full.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJob(job *types.Job, description string) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("Department: %s\n", job.Department))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", job.Location))
	sb.WriteString(fmt.Sprintf("Type:       %s", job.Type))
	if job.Salary != "" {
		sb.WriteString(fmt.Sprintf("\nSalary:     %s", job.Salary))
	}
	p.printBox(job.Title, sb.String())

	if description != "" {
		fmt.Fprintf(p.out, "\n%s\n", description)
	}
	p.printList("Requirements", job.Requirements)
	p.printList("Responsibilities", job.Responsibilities)
	p.printList("Benefits", job.Benefits)
	if job.MapURL != "" {
		fmt.Fprintf(p.out, "\nMap: %s\n", job.MapURL)
	}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(p.out, "\n%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(p.out, "  • %s\n", item)
	}
}

// PrintSubmission outputs the receipt for a submitted application.
func (p *Printer) PrintSubmission(app *types.Application, message string) {
	if app == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:    %s\n", app.JobID))
	sb.WriteString(fmt.Sprintf("Name:   %s\n", app.ApplicantName))
	sb.WriteString(fmt.Sprintf("Email:  %s", app.ApplicantEmail))
	if app.Resume != nil {
		sb.WriteString(fmt.Sprintf("\nResume: %s (%s)", app.Resume.Filename, humanize.IBytes(uint64(app.Resume.Size()))))
	}
	if message != "" {
		sb.WriteString("\n\n" + message)
	}

	p.printBox("APPLICATION SUBMITTED", sb.String())
}
