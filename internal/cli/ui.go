package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleRoot    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleMember  = lipgloss.NewStyle().Foreground(colorGreen)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
)

// report writes the human-readable output of a command. Machine-readable
// output (--json, config show, cache path) goes to the command's writer
// directly.
type report struct {
	w io.Writer
}

func (r report) mark(mark, format string, args ...any) {
	fmt.Fprintln(r.w, mark+" "+fmt.Sprintf(format, args...))
}

func (r report) success(format string, args ...any) { r.mark(markSuccess, format, args...) }

func (r report) info(format string, args ...any) { r.mark(markInfo, format, args...) }

func (r report) warn(format string, args ...any) {
	fmt.Fprintln(r.w, markWarning+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (r report) detail(format string, args ...any) {
	fmt.Fprintln(r.w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints one written file.
func (r report) file(path string) {
	fmt.Fprintln(r.w, "  "+styleDim.Render("→")+" "+styleValue.Render(path))
}

func (r report) field(key, value string) {
	fmt.Fprintln(r.w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// next suggests the command to run after this one.
func (r report) next(description, cmd string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// summary is the one-line digest printed after a layout.
type summary struct {
	persons     int
	generations int
	couples     int
	duplicates  int
	cached      bool
}

// summarize digests a positioned graph.
func summarize(l graph.Layout, duplicates int, cached bool) summary {
	return summary{
		persons:     countPersons(l),
		generations: len(l.Rows),
		couples:     len(l.Couples),
		duplicates:  duplicates,
		cached:      cached,
	}
}

func (s summary) String() string {
	parts := []string{
		fmt.Sprintf("%d persons", s.persons),
		fmt.Sprintf("%d generations", s.generations),
		fmt.Sprintf("%d couples", s.couples),
	}
	if s.duplicates > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate ids", s.duplicates))
	}
	if s.cached {
		parts = append(parts, "cached")
	} else {
		parts = append(parts, "fresh")
	}
	return strings.Join(parts, " · ")
}

func (r report) summary(s summary) {
	fmt.Fprintln(r.w, "  "+styleDim.Render(s.String()))
	if s.duplicates > 0 {
		r.warn("%d duplicate person ids were skipped", s.duplicates)
	}
}

// bloodline prints the root, then its relatives and unions.
func (r report) bloodline(bl highlight.Bloodline) {
	r.field("Root", styleRoot.Render(bl.Root))
	r.field("Persons", fmt.Sprint(len(bl.Persons)))
	r.field("Unions", fmt.Sprint(len(bl.Unions)))
	if len(bl.Persons) > 1 {
		relatives := make([]string, 0, len(bl.Persons)-1)
		for _, id := range bl.Persons[1:] {
			relatives = append(relatives, styleMember.Render(id))
		}
		fmt.Fprintln(r.w, "  "+strings.Join(relatives, styleDim.Render(", ")))
	}
	if len(bl.Unions) > 0 {
		r.detail("%s", strings.Join(bl.Unions, ", "))
	}
}
