package parser

import (
	"strings"

	"ccforest/internal/cond"
	"ccforest/internal/lex"
)

// condParser is a small recursive-descent parser over the token run
// following `#if`/`#elif`, building a cond.Condition via the shared
// atom Universe. It recognizes `defined(NAME)`/`defined NAME`, `!`,
// `&&`, `||`, and parentheses; anything else (macro-expanded
// expressions, integer comparisons, and bare macro names used as
// truth values) is folded into one opaque raw atom spanning the run
// of tokens it could not decompose, per spec.md §4.1's AtomRaw escape
// hatch.
type condParser struct {
	toks []lex.Token
	pos  int
	u    *cond.Universe
}

// ParseIfExpression parses the tokens after `#if`.
func ParseIfExpression(toks []lex.Token, u *cond.Universe) cond.Condition {
	if len(toks) == 0 {
		return cond.True()
	}
	p := &condParser{toks: toks, u: u}
	c := p.parseOr()
	return c
}

// ParseIfdef builds `defined(name)`.
func ParseIfdef(name string, u *cond.Universe) cond.Condition {
	return cond.FromAtom(u.Defined(name))
}

// ParseIfndef builds `¬defined(name)`.
func ParseIfndef(name string, u *cond.Universe) cond.Condition {
	return cond.FromNegatedAtom(u.Defined(name))
}

func (p *condParser) peek() lex.Token {
	if p.pos >= len(p.toks) {
		return lex.Token{Kind: lex.KindEOF}
	}
	return p.toks[p.pos]
}

func (p *condParser) next() lex.Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *condParser) parseOr() cond.Condition {
	left := p.parseAnd()
	for p.peek().Kind == lex.KindOperator && p.peek().Text == "||" {
		p.next()
		right := p.parseAnd()
		left = cond.Disjunction(left, right)
	}
	return left
}

func (p *condParser) parseAnd() cond.Condition {
	left := p.parseUnary()
	for p.peek().Kind == lex.KindOperator && p.peek().Text == "&&" {
		p.next()
		right := p.parseUnary()
		left = cond.Conjunction(left, right)
	}
	return left
}

func (p *condParser) parseUnary() cond.Condition {
	if p.peek().Kind == lex.KindOperator && p.peek().Text == "!" {
		p.next()
		return cond.Complement(p.parseUnary())
	}
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() cond.Condition {
	t := p.peek()
	switch {
	case t.Kind == lex.KindPunctuator && t.Text == "(":
		p.next()
		inner := p.parseOr()
		if p.peek().Kind == lex.KindPunctuator && p.peek().Text == ")" {
			p.next()
		}
		return inner
	case t.Kind == lex.KindIdentifier && t.Text == "defined":
		p.next()
		return p.parseDefinedOperand()
	case t.Kind == lex.KindIdentifier:
		// A bare name used as a truth value (`#if VERSION`) is a
		// distinct predicate from `defined(VERSION)` — the macro could
		// be defined to 0 or some other falsy value. Route it through
		// the same opaque-raw-atom path as any other undecomposable
		// expression instead of conflating it with definedness.
		return p.parseRawRemainder()
	default:
		return p.parseRawRemainder()
	}
}

func (p *condParser) parseDefinedOperand() cond.Condition {
	parenthesized := false
	if p.peek().Kind == lex.KindPunctuator && p.peek().Text == "(" {
		p.next()
		parenthesized = true
	}
	name := p.next().Text
	if parenthesized && p.peek().Kind == lex.KindPunctuator && p.peek().Text == ")" {
		p.next()
	}
	return cond.FromAtom(p.u.Defined(name))
}

// parseRawRemainder folds a numeric/operator expression this parser
// cannot decompose (e.g. `__STDC_VERSION__ >= 201112L`, or a bare
// macro name like `VERSION`) into a single opaque raw atom, keyed by
// its normalized text so repeated occurrences of the same expression
// compare equal.
func (p *condParser) parseRawRemainder() cond.Condition {
	var sb strings.Builder
	for p.peek().Kind != lex.KindEOF {
		t := p.next()
		if t.Kind == lex.KindOperator && (t.Text == "&&" || t.Text == "||") {
			p.pos--
			break
		}
		if t.Kind == lex.KindPunctuator && t.Text == ")" {
			p.pos--
			break
		}
		sb.WriteString(t.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return cond.True()
	}
	return cond.FromAtom(p.u.Raw(text))
}
