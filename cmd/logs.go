package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olimci/architect/pkg/filter"
	"github.com/olimci/architect/pkg/render"
)

type outputStyle int

const (
	outputPlain outputStyle = iota
	outputRich
)

type planPrinter struct {
	style outputStyle
	out   io.Writer
	mu    sync.Mutex

	decisionStyles map[filter.Decision]lipgloss.Style
	statusStyles   map[render.Status]lipgloss.Style
	mutedStyle     lipgloss.Style
	warnStyle      lipgloss.Style
	headerStyle    lipgloss.Style
}

func newPlanPrinter(style outputStyle, out io.Writer) *planPrinter {
	p := &planPrinter{
		style: style,
		out:   out,
	}

	if style != outputRich {
		return p
	}

	colorEnabled := false
	if f, ok := out.(*os.File); ok {
		colorEnabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !colorEnabled {
		p.style = outputPlain
		return p
	}

	p.decisionStyles = map[filter.Decision]lipgloss.Style{
		filter.Skip:            lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")), // muted
		filter.IncludeVerbatim: lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")), // blue
		filter.IncludeRender:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")), // green
	}
	p.statusStyles = map[render.Status]lipgloss.Style{
		render.Planned:     lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")),
		render.Created:     lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		render.Overwritten: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		render.Unchanged:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
	}
	p.mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	p.warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	p.headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4"))
	return p
}

func (p *planPrinter) rich() bool {
	return p.style == outputRich
}

func (p *planPrinter) header(s string) string {
	if p.rich() {
		return p.headerStyle.Render(s)
	}
	return s
}

func (p *planPrinter) muted(s string) string {
	if p.rich() {
		return p.mutedStyle.Render(s)
	}
	return s
}

func (p *planPrinter) decision(d filter.Decision) string {
	token := fmt.Sprintf("%-8s", d.String())
	if s, ok := p.decisionStyles[d]; ok && p.rich() {
		return s.Render(token)
	}
	return token
}

func (p *planPrinter) status(s render.Status) string {
	token := fmt.Sprintf("%-11s", s.String())
	if st, ok := p.statusStyles[s]; ok && p.rich() {
		return st.Render(token)
	}
	return token
}

// PrintPlan lists the files plan would write. Skipped files are only listed
// when all is set.
func (p *planPrinter) PrintPlan(plan *render.Plan, all bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, p.header(templateTitle(plan)))

	for _, f := range plan.Files {
		fmt.Fprintf(p.out, "  %s %s%s\n", p.decision(f.Decision), f.Target, p.muted(fileNote(f)))
	}

	if all {
		for _, e := range plan.Skipped {
			fmt.Fprintf(p.out, "  %s %s%s\n", p.decision(e.Decision), e.Path, p.muted(" ("+e.Reason+")"))
		}
	}

	p.printConflicts(plan)

	fmt.Fprintf(p.out, "%d files, %d skipped\n", len(plan.Files), len(plan.Skipped))
}

// PrintResult reports what a render did to target.
func (p *planPrinter) PrintResult(plan *render.Plan, target string, dryRun bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}
	fmt.Fprintln(p.out, p.header(fmt.Sprintf("%s %s to %s", verb, templateTitle(plan), target)))

	counts := make(map[render.Status]int)
	for _, f := range plan.Files {
		counts[f.Status]++
		fmt.Fprintf(p.out, "  %s %s\n", p.status(f.Status), f.Target)
	}

	p.printConflicts(plan)

	var parts []string
	for _, s := range []render.Status{render.Planned, render.Created, render.Overwritten, render.Unchanged} {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no files")
	}
	fmt.Fprintln(p.out, strings.Join(parts, ", "))
}

func (p *planPrinter) printConflicts(plan *render.Plan) {
	for _, c := range plan.Conflicts {
		line := fmt.Sprintf("warning: %d files render to %s: %s", len(c.Sources), c.Target, strings.Join(c.Sources, ", "))
		if p.rich() {
			line = p.warnStyle.Render(line)
		}
		fmt.Fprintln(p.out, line)
	}
}

func templateTitle(plan *render.Plan) string {
	switch {
	case plan.Name == "":
		return "template"
	case plan.Version == "":
		return plan.Name
	default:
		return plan.Name + " " + plan.Version
	}
}

func fileNote(f *render.File) string {
	if f.Source == f.Target {
		return ""
	}
	return " (from " + f.Source + ")"
}
