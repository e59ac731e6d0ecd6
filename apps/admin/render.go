package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/trezcool/edutracker/core/grading"
)

const defaultWidth = 80

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#888888")

	gradeColors = map[grading.Grade]lipgloss.Color{
		grading.GradeA: lipgloss.Color("#04B575"),
		grading.GradeB: lipgloss.Color("#3C9EE7"),
		grading.GradeC: lipgloss.Color("#E7C13C"),
		grading.GradeD: lipgloss.Color("#E7873C"),
		grading.GradeF: lipgloss.Color("#E74C3C"),
	}
)

// printer renders styled output on a terminal and plain text anywhere else.
type printer struct {
	r      *lipgloss.Renderer
	styled bool
	width  int
}

func (cli *commandLine) printer() printer {
	p := printer{r: lipgloss.NewRenderer(cli.out), width: defaultWidth}
	if isTerminalFunc(cli.fd) {
		p.styled = true
		if w, _, err := term.GetSize(cli.fd); err == nil && w > 20 {
			p.width = w
		}
	}
	return p
}

func (p printer) title(s string) string {
	return p.r.NewStyle().Bold(true).Foreground(accent).Render(s)
}

func (p printer) label(s string) string {
	return p.r.NewStyle().Bold(true).Width(20).Render(s)
}

func (p printer) grade(g grading.Grade) string {
	if g == "" {
		return "-"
	}
	return p.r.NewStyle().Bold(true).Foreground(gradeColors[g]).Render(string(g))
}

func (p printer) wrap(s string, margin int) string {
	return p.r.NewStyle().Width(p.width - margin).Render(s)
}

func (p printer) table(headers ...string) *table.Table {
	header := p.r.NewStyle().Bold(true).Padding(0, 1)
	cell := p.r.NewStyle().Padding(0, 1)
	t := table.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if p.styled {
		return t.Border(lipgloss.NormalBorder()).BorderStyle(p.r.NewStyle().Foreground(muted))
	}
	return t.Border(lipgloss.HiddenBorder())
}

// box frames the body on a terminal.
func (p printer) box(body string) string {
	if !p.styled {
		return body
	}
	return p.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(body)
}

func percent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}
