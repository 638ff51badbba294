package builder

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/token"
)

// DefaultMaxDepth bounds rule nesting when the caller does not choose a limit.
const DefaultMaxDepth = 1000

// Diagnostic is a syntax error over the byte range [Start, End). Limit
// marks the diagnostic recorded when the nesting limit was reached.
type Diagnostic struct {
	Message string
	Start   int
	End     int
	Limit   bool
}

type frame struct {
	children []*cst.Node
	at       int
	resolved bool
}

// Marker is an open, unresolved node. It must be resolved exactly once
// with Complete, Drop or Rollback, innermost first.
type Marker struct {
	f     *frame
	depth int
	pos   int
	sig   int
	diags int
	names int
}

type activation struct {
	rule string
	pos  int
}

// Builder builds a syntax tree over a token slice. It owns the cursor,
// the stack of open markers and the diagnostics of one parse.
type Builder struct {
	tokens   []token.Token
	frames   []*frame
	diags    []Diagnostic
	expected map[int][]string
	active   map[activation]bool
	stack    []activation
	overflow *Diagnostic
	end      int
	pos      int
	furthest int
	maxDepth int
	quiet    int
}

// New creates a builder over tokens. maxDepth limits rule nesting; zero
// selects DefaultMaxDepth and a negative value disables the limit.
func New(tokens []token.Token, maxDepth int) *Builder {
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	end := 0
	if len(tokens) > 0 {
		end = tokens[len(tokens)-1].End
	}
	return &Builder{
		tokens:   tokens,
		expected: make(map[int][]string),
		active:   make(map[activation]bool),
		end:      end,
		maxDepth: maxDepth,
	}
}

// Open starts a new node at the current position. Pending trivia is
// attached to the enclosing node first.
func (b *Builder) Open() Marker {
	b.flush()
	f := &frame{at: b.pos}
	b.frames = append(b.frames, f)
	sig := b.significant()
	return Marker{
		f:     f,
		depth: len(b.frames) - 1,
		pos:   b.pos,
		sig:   sig,
		diags: len(b.diags),
		names: len(b.expected[sig]),
	}
}

// Complete closes m as a node of the given kind holding everything
// consumed since m was opened. Trailing trivia is handed back to the
// enclosing node.
func (b *Builder) Complete(m Marker, kind cst.Kind) *cst.Node {
	b.check(m, "complete")
	f := b.pop()

	children := f.children
	var trailing []*cst.Node
	if len(b.frames) > 0 {
		i := len(children)
		for i > 0 && children[i-1].IsTrivia() {
			i--
		}
		children, trailing = children[:i:i], children[i:]
	}

	n := cst.NewNode(kind, children, b.offsetOf(f.at))
	if parent := b.current(); parent != nil {
		parent.children = append(parent.children, n)
		parent.children = append(parent.children, trailing...)
	}
	return n
}

// Drop resolves m without creating a node; its children move to the
// enclosing node.
func (b *Builder) Drop(m Marker) {
	b.check(m, "drop")
	f := b.pop()
	if parent := b.current(); parent != nil {
		parent.children = append(parent.children, f.children...)
	}
}

// Rollback discards everything built since m was opened, including
// markers opened after it, and restores the cursor and diagnostics.
func (b *Builder) Rollback(m Marker) {
	if m.f == nil || m.f.resolved {
		panic("builder: rollback of a resolved marker")
	}
	if m.depth >= len(b.frames) || b.frames[m.depth] != m.f {
		panic("builder: rollback of a marker that is not open")
	}
	for _, f := range b.frames[m.depth:] {
		f.resolved = true
	}
	b.frames = b.frames[:m.depth]
	b.pos = m.pos
	b.diags = b.diags[:m.diags]
}

func (b *Builder) check(m Marker, op string) {
	if m.f == nil || m.f.resolved {
		panic(fmt.Sprintf("builder: %s of a resolved marker", op))
	}
	if m.depth != len(b.frames)-1 || b.frames[m.depth] != m.f {
		panic(fmt.Sprintf("builder: %s of a marker that is not innermost", op))
	}
}

func (b *Builder) pop() *frame {
	f := b.frames[len(b.frames)-1]
	f.resolved = true
	b.frames = b.frames[:len(b.frames)-1]
	return f
}

func (b *Builder) current() *frame {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

func (b *Builder) push(n *cst.Node) {
	f := b.current()
	if f == nil {
		panic("builder: token consumed outside of any marker")
	}
	f.children = append(f.children, n)
}

// flush moves trivia at the cursor into the innermost open node.
func (b *Builder) flush() {
	if len(b.frames) == 0 {
		return
	}
	for b.pos < len(b.tokens) && b.tokens[b.pos].Kind.IsTrivia() {
		tok := b.tokens[b.pos]
		leaf := cst.NewLeaf(tok)
		if tok.Kind.IsComment() {
			b.push(cst.NewNode(cst.Comment, []*cst.Node{leaf}, tok.Start))
		} else {
			b.push(leaf)
		}
		b.pos++
	}
}

// FlushTrivia attaches trailing trivia to the innermost open node.
func (b *Builder) FlushTrivia() {
	b.flush()
}

func (b *Builder) significant() int {
	i := b.pos
	for i < len(b.tokens) && b.tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

func (b *Builder) offsetOf(i int) int {
	if i < len(b.tokens) {
		return b.tokens[i].Start
	}
	return b.end
}

// Consume appends the next significant token to the innermost node if
// it has kind k. Otherwise it records k as expected here and returns
// false without side effects on the tree.
func (b *Builder) Consume(k token.Kind) bool {
	i := b.significant()
	if i < len(b.tokens) && b.tokens[i].Kind == k {
		b.flush()
		b.push(cst.NewLeaf(b.tokens[b.pos]))
		b.pos++
		return true
	}
	b.expect(i, k.String())
	return false
}

// Advance consumes the next significant token whatever its kind.
// BadToken leaves are wrapped in LexerTokens nodes.
func (b *Builder) Advance() {
	b.flush()
	if b.pos >= len(b.tokens) {
		return
	}
	tok := b.tokens[b.pos]
	leaf := cst.NewLeaf(tok)
	if tok.Kind == token.BadToken {
		b.push(cst.NewNode(cst.LexerTokens, []*cst.Node{leaf}, tok.Start))
	} else {
		b.push(leaf)
	}
	b.pos++
}

// Peek returns the kind of the next significant token, or EOF.
func (b *Builder) Peek() token.Kind {
	if i := b.significant(); i < len(b.tokens) {
		return b.tokens[i].Kind
	}
	return token.EOF
}

// At reports whether the next significant token has kind k.
func (b *Builder) At(k token.Kind) bool {
	return b.Peek() == k
}

// AtEnd reports whether only trivia remains.
func (b *Builder) AtEnd() bool {
	return b.significant() >= len(b.tokens)
}

// Pos returns the index of the next significant token.
func (b *Builder) Pos() int {
	return b.significant()
}

// Offset returns the byte offset of the next significant token.
func (b *Builder) Offset() int {
	return b.offsetOf(b.significant())
}

// Error reports msg at the next significant token.
func (b *Builder) Error(msg string) {
	b.errorAtToken(b.significant(), msg)
}

// ErrorAt reports msg over [start, end). A diagnostic is dropped when
// another one already starts at the same offset.
func (b *Builder) ErrorAt(start, end int, msg string) {
	if b.quiet > 0 || b.HasErrorAt(start) {
		return
	}
	b.diags = append(b.diags, Diagnostic{Message: msg, Start: start, End: end})
}

func (b *Builder) errorAtToken(i int, msg string) {
	if i < len(b.tokens) {
		b.ErrorAt(b.tokens[i].Start, b.tokens[i].End, msg)
		return
	}
	b.ErrorAt(b.end, b.end, msg)
}

// HasErrorAt reports whether a diagnostic starts at offset.
func (b *Builder) HasErrorAt(offset int) bool {
	if b.overflow != nil && b.overflow.Start == offset {
		return true
	}
	for _, d := range b.diags {
		if d.Start == offset {
			return true
		}
	}
	return false
}

// ReportExpected reports what was expected at the next significant token.
func (b *Builder) ReportExpected() {
	i := b.significant()
	b.errorAtToken(i, b.messageAt(i))
}

// ReportFurthest reports what was expected at the furthest token any
// failed match reached, or at the cursor if nothing got further.
func (b *Builder) ReportFurthest() {
	i := max(b.furthest, b.significant())
	b.errorAtToken(i, b.messageAt(i))
}

// ReportUnexpected reports the next significant token as unexpected.
func (b *Builder) ReportUnexpected() {
	if i := b.significant(); i < len(b.tokens) {
		b.errorAtToken(i, "unexpected "+describe(b.tokens[i]))
	}
}

// ExpectedMessage describes what was expected at the next significant token.
func (b *Builder) ExpectedMessage() string {
	return b.messageAt(b.significant())
}

// ResetExpected forgets every recorded expectation.
func (b *Builder) ResetExpected() {
	clear(b.expected)
	b.furthest = 0
}

func (b *Builder) expect(i int, name string) {
	if b.quiet > 0 {
		return
	}
	names := b.expected[i]
	for _, n := range names {
		if n == name {
			return
		}
	}
	b.expected[i] = append(names, name)
	if i > b.furthest {
		b.furthest = i
	}
}

// Collapse replaces the expectations recorded at m's start since m was
// opened with a single label such as "<instr>".
func (b *Builder) Collapse(m Marker, label string) {
	if b.quiet > 0 {
		return
	}
	names := b.expected[m.sig]
	if len(names) <= m.names {
		return
	}
	kept := append([]string(nil), names[:m.names]...)
	for _, n := range kept {
		if n == label {
			b.expected[m.sig] = kept
			return
		}
	}
	b.expected[m.sig] = append(kept, label)
}

func (b *Builder) messageAt(i int) string {
	names := b.expected[i]
	got := ""
	if i < len(b.tokens) {
		got = describe(b.tokens[i])
	}

	switch {
	case len(names) == 0 && got == "":
		return "unexpected end of input"
	case len(names) == 0:
		return "unexpected " + got
	}

	msg := joinNames(names) + " expected"
	if got != "" {
		msg += ", got " + got
	}
	return msg
}

func joinNames(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

const maxQuoted = 32

func describe(tok token.Token) string {
	text := tok.Text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "..."
	}
	if utf8.RuneCountInString(text) > maxQuoted {
		text = string([]rune(text)[:maxQuoted]) + "..."
	}
	return "'" + text + "'"
}

// Enter records that rule starts at the current position. It returns
// false when the nesting limit is reached; the first such event is kept
// as a diagnostic. Entering a rule that is already active at the same
// token is a grammar bug and panics.
func (b *Builder) Enter(rule string) bool {
	if b.maxDepth > 0 && len(b.stack) >= b.maxDepth {
		if b.overflow == nil {
			i := b.significant()
			start, end := b.offsetOf(i), b.offsetOf(i)
			if i < len(b.tokens) {
				end = b.tokens[i].End
			}
			b.overflow = &Diagnostic{
				Message: fmt.Sprintf("maximum recursion depth (%d) reached in '%s'", b.maxDepth, rule),
				Start:   start,
				End:     end,
				Limit:   true,
			}
		}
		return false
	}
	a := activation{rule: rule, pos: b.significant()}
	if b.active[a] {
		panic(fmt.Sprintf("builder: rule %q re-entered at token %d without consuming input", rule, a.pos))
	}
	b.active[a] = true
	b.stack = append(b.stack, a)
	return true
}

// Exit ends the innermost rule started with Enter.
func (b *Builder) Exit() {
	if len(b.stack) == 0 {
		panic("builder: exit without matching enter")
	}
	a := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	delete(b.active, a)
}

// Depth returns the number of active rules.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Overflowed reports whether the nesting limit was hit.
func (b *Builder) Overflowed() bool {
	return b.overflow != nil
}

// BeginQuiet suppresses diagnostics and expectations until the matching
// EndQuiet. Lookahead runs quietly.
func (b *Builder) BeginQuiet() {
	b.quiet++
}

// EndQuiet ends the innermost BeginQuiet.
func (b *Builder) EndQuiet() {
	if b.quiet == 0 {
		panic("builder: EndQuiet without BeginQuiet")
	}
	b.quiet--
}

// Quiet reports whether the builder is inside a lookahead.
func (b *Builder) Quiet() bool {
	return b.quiet > 0
}

// OpenMarkers reports the number of unresolved markers.
func (b *Builder) OpenMarkers() int {
	return len(b.frames)
}

// Diagnostics returns the diagnostics in the order they were reported.
// The nesting limit diagnostic survives rollback and comes last.
func (b *Builder) Diagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), b.diags...)
	if b.overflow != nil {
		out = append(out, *b.overflow)
	}
	return out
}
