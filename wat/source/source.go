// Package source maps byte offsets in WAT text to lines and display
// columns.
package source

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tidwall/btree"
)

// TabWidth is the tab stop used when computing display columns.
const TabWidth = 4

// Position is a 1-based line and display column, plus the byte offset it
// was computed from.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Index answers offset to position queries over a fixed source text.
// It is safe for concurrent reads.
type Index struct {
	src    string
	lines  btree.Map[int, int] // line start offset -> 1-based line
	starts []int
}

// NewIndex builds the line table for src. Lines end at '\n'; a '\r'
// before it belongs to the line ending.
func NewIndex(src string) *Index {
	x := &Index{src: src}
	x.add(0)
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			x.add(i + 1)
		}
	}
	return x
}

func (x *Index) add(start int) {
	x.starts = append(x.starts, start)
	x.lines.Set(start, len(x.starts))
}

// Source returns the indexed text.
func (x *Index) Source() string {
	return x.src
}

// LineCount returns the number of lines. Empty text has one empty line.
func (x *Index) LineCount() int {
	return len(x.starts)
}

// Position returns the position of offset. Offsets outside the text are
// clamped to it.
func (x *Index) Position(offset int) Position {
	offset = max(0, min(offset, len(x.src)))

	iter := x.lines.Iter()
	if !iter.Seek(offset) {
		iter.Last()
	} else if iter.Key() > offset {
		iter.Prev()
	}
	start, line := iter.Key(), iter.Value()

	return Position{
		Line:   line,
		Column: Width(x.src[start:offset]) + 1,
		Offset: offset,
	}
}

// LineStart returns the offset of the first byte of line n, or -1 if n
// is out of range.
func (x *Index) LineStart(n int) int {
	if n < 1 || n > len(x.starts) {
		return -1
	}
	return x.starts[n-1]
}

// Line returns the text of line n without its line ending, or "" if n is
// out of range.
func (x *Index) Line(n int) string {
	start := x.LineStart(n)
	if start < 0 {
		return ""
	}
	end := len(x.src)
	if n < len(x.starts) {
		end = x.starts[n] - 1
	}
	return strings.TrimSuffix(x.src[start:end], "\r")
}

// Width returns the display width of text when it starts at column zero.
// Tabs advance to the next multiple of TabWidth.
func Width(text string) int {
	col := 0
	for {
		tab := strings.IndexByte(text, '\t')
		if tab < 0 {
			return col + uniseg.StringWidth(text)
		}
		col += uniseg.StringWidth(text[:tab])
		col += TabWidth - col%TabWidth
		text = text[tab+1:]
	}
}

// ExpandTabs replaces tabs with the spaces Width counts for them, so
// that columns line up when text is printed.
func ExpandTabs(text string) string {
	if !strings.Contains(text, "\t") {
		return text
	}
	var sb strings.Builder
	for {
		tab := strings.IndexByte(text, '\t')
		if tab < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:tab])
		col := Width(sb.String())
		sb.WriteString(strings.Repeat(" ", TabWidth-col%TabWidth))
		text = text[tab+1:]
	}
}
