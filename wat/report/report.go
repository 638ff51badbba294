// Package report prints parse diagnostics with the source line they
// point at, in the style of compiler error output:
//
//	add.wat:3:25: error: <valtype> or ')' expected
//	 3 | (func (param i32) (result
//	   |                          ^
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wat-syntax/errors"
	"github.com/wippyai/wat-syntax/wat"
	"github.com/wippyai/wat-syntax/wat/source"
)

var (
	locationStyle = lipgloss.NewStyle().Bold(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	caretStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// Renderer formats diagnostics. The zero value prints plain text with no
// context lines.
type Renderer struct {
	// Styled enables terminal colors.
	Styled bool

	// Context is the number of source lines shown before the line a
	// diagnostic starts on.
	Context int
}

// Render writes one block per diagnostic to w. name labels the source in
// the location prefix.
func (r Renderer) Render(w io.Writer, name, src string, diags []wat.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	x := source.NewIndex(src)

	var sb strings.Builder
	for _, d := range diags {
		r.diagnostic(&sb, x, name, d)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidInput, err, "write report")
	}
	return nil
}

// String renders diagnostics into a string.
func (r Renderer) String(name, src string, diags []wat.Diagnostic) string {
	var sb strings.Builder
	_ = r.Render(&sb, name, src, diags)
	return sb.String()
}

func (r Renderer) diagnostic(sb *strings.Builder, x *source.Index, name string, d wat.Diagnostic) {
	start := x.Position(d.Start)
	end := x.Position(d.End)

	loc := fmt.Sprintf("%s:%s:", name, start)
	sb.WriteString(r.style(locationStyle, loc))
	sb.WriteByte(' ')
	sb.WriteString(r.style(errorStyle, "error:"))
	sb.WriteByte(' ')
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	first := max(1, start.Line-r.Context)
	width := len(strconv.Itoa(start.Line))
	for n := first; n <= start.Line; n++ {
		gutter := fmt.Sprintf(" %*d |", width, n)
		sb.WriteString(r.style(gutterStyle, gutter))
		if line := source.ExpandTabs(x.Line(n)); line != "" {
			sb.WriteByte(' ')
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}

	// Ranges that run past the first line are underlined to its end.
	endCol := end.Column
	if end.Line != start.Line {
		endCol = source.Width(x.Line(start.Line)) + 1
	}
	carets := max(1, endCol-start.Column)

	sb.WriteString(r.style(gutterStyle, " "+strings.Repeat(" ", width)+" |"))
	sb.WriteByte(' ')
	sb.WriteString(strings.Repeat(" ", start.Column-1))
	sb.WriteString(r.style(caretStyle, strings.Repeat("^", carets)))
	sb.WriteByte('\n')
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}
