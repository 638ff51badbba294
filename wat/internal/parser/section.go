package parser

import (
	"go.uber.org/zap"

	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/internal/builder"
	"github.com/wippyai/wat-syntax/wat/token"
)

// rule parses one grammar production at the current position. It
// returns false (no match) only when nothing was committed; in that case
// the position and the tree are exactly as before the call.
type rule func(p *Parser) bool

// noNode marks a section that does not produce its own tree node.
const noNode cst.Kind = 0

// section is the activation of one rule. Elements run in sequence until
// one fails. Once pinned the section is committed: later elements are
// still attempted, every failure is reported, and the section matches.
type section struct {
	p      *Parser
	m      builder.Marker
	name   string
	label  string
	kind   cst.Kind
	ok     bool
	pinned bool
	glue   bool
	live   bool
}

// enter opens a section for the named rule. Anonymous sections (empty
// name) skip the nesting guard.
func (p *Parser) enter(name string, kind cst.Kind) section {
	s := section{p: p, name: name, kind: kind}
	if name != "" && !p.b.Enter(name) {
		return s
	}
	s.m = p.b.Open()
	s.ok, s.live = true, true
	return s
}

// enterLabeled opens a section whose failed expectations are reported
// under label instead of the tokens tried inside it.
func (p *Parser) enterLabeled(name string, kind cst.Kind, label string) section {
	s := p.enter(name, kind)
	s.label = label
	return s
}

// enterGlue opens a single-token section that recovers even when its
// token is missing: if the next token is not a synchronization point it
// is skipped and reported, and the section matches.
func (p *Parser) enterGlue(name string) section {
	s := p.enter(name, noNode)
	s.glue = true
	return s
}

func (s *section) parse(rs ...rule) {
	for _, r := range rs {
		if !s.ok && !s.pinned {
			return
		}
		if r(s.p) {
			continue
		}
		if s.pinned {
			s.p.b.ReportExpected()
		}
		s.ok = false
	}
}

// pin commits the section if everything so far matched.
func (s *section) pin() {
	if s.ok {
		s.pinned = true
	}
}

// exit resolves the section. A matched section skips tokens while
// recoverWhile holds, then becomes a node of its kind.
func (s *section) exit(recoverWhile rule) bool {
	if !s.live {
		return false
	}
	p, b := s.p, s.p.b

	matched := s.ok || s.pinned
	if !matched && s.glue && recoverWhile != nil {
		matched = p.skip(s.name, recoverWhile)
	}
	if !matched {
		b.Rollback(s.m)
		s.done()
		return false
	}

	if recoverWhile != nil {
		p.skip(s.name, recoverWhile)
	}
	s.done()
	if s.kind == noNode {
		b.Drop(s.m)
	} else {
		b.Complete(s.m, s.kind)
	}
	return true
}

func (s *section) done() {
	if s.label != "" {
		s.p.b.Collapse(s.m, s.label)
	}
	if s.name != "" {
		s.p.b.Exit()
	}
}

// skip reports an error and wraps tokens in an Error node while
// recoverWhile holds. It does nothing inside a lookahead.
func (p *Parser) skip(name string, recoverWhile rule) bool {
	b := p.b
	if b.Quiet() || b.AtEnd() || !recoverWhile(p) {
		return false
	}
	start := b.Offset()
	b.ReportExpected()
	m := b.Open()
	n := 0
	for {
		b.Advance()
		n++
		if b.AtEnd() || !recoverWhile(p) {
			break
		}
	}
	b.Complete(m, cst.Error)
	p.log.Debug("recovered",
		zap.String("rule", name),
		zap.Int("offset", start),
		zap.Int("skipped", n))
	return true
}

// lookahead reports whether r matches here, leaving no trace.
func (p *Parser) lookahead(r rule) bool {
	b := p.b
	b.BeginQuiet()
	m := b.Open()
	ok := r(p)
	b.Rollback(m)
	b.EndQuiet()
	return ok
}

func tok(k token.Kind) rule {
	return func(p *Parser) bool {
		return p.b.Consume(k)
	}
}

func opt(r rule) rule {
	return func(p *Parser) bool {
		r(p)
		return true
	}
}

// star matches r zero or more times. It stops as soon as a match
// consumes nothing, so it always terminates.
func star(r rule) rule {
	return func(p *Parser) bool {
		repeat(p, r)
		return true
	}
}

func plus(r rule) rule {
	return func(p *Parser) bool {
		if !r(p) {
			return false
		}
		repeat(p, r)
		return true
	}
}

func repeat(p *Parser, r rule) {
	for {
		pos := p.b.Pos()
		if !r(p) || p.b.Pos() == pos {
			return
		}
	}
}

// choice tries alternatives in order; the first match wins.
func choice(rs ...rule) rule {
	return func(p *Parser) bool {
		for _, r := range rs {
			if r(p) {
				return true
			}
		}
		return false
	}
}

// seq matches rs in order as one unit, without a node of its own.
func seq(rs ...rule) rule {
	return func(p *Parser) bool {
		s := p.enter("", noNode)
		s.parse(rs...)
		return s.exit(nil)
	}
}

var (
	lpar     = tok(token.LPar)
	rpar     = tok(token.RPar)
	ident    = tok(token.Identifier)
	optIdent = opt(ident)
	str      = tok(token.String)
	unsigned = tok(token.Unsigned)
	refType  = tok(token.RefType)
)

// paren parses '(' aux ')' as a node of kind, committing once aux has
// matched.
func (p *Parser) paren(name string, kind cst.Kind, aux rule) bool {
	s := p.enter(name, kind)
	s.parse(lpar, aux)
	s.pin()
	s.parse(rpar)
	return s.exit(nil)
}

// keyed parses the body of a parenthesized form: head commits, the rest
// follows, and stray tokens before the closing ')' are skipped.
func (p *Parser) keyed(name string, head rule, body ...rule) bool {
	s := p.enter(name, noNode)
	s.parse(head)
	s.pin()
	s.parse(body...)
	return s.exit(itemRecover)
}
