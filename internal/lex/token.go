// Package lex assembles logical lines from physical C source lines
// (splicing backslash-continuations) and tokenizes each one, in the
// picker order spec.md §4.2 fixes: directive prefix, string/char literal,
// numeric literal, identifier/keyword, multi-character operator,
// single-character operator/punctuator.
package lex

import "fmt"

// Kind is the coarse category of a Token, per spec.md §3's Token data
// model.
type Kind int

const (
	KindEOF Kind = iota
	KindError
	KindIdentifier
	KindInteger
	KindFloat
	KindString
	KindChar
	KindOperator
	KindPunctuator
	// KindDirective is the lone '#' that opens a preprocessor line; it is
	// only recognized as such when it is the first non-whitespace
	// character of a logical line.
	KindDirective
	KindLineComment
	KindBlockComment
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindError:
		return "ERROR"
	case KindIdentifier:
		return "IDENTIFIER"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindString:
		return "STRING"
	case KindChar:
		return "CHAR"
	case KindOperator:
		return "OPERATOR"
	case KindPunctuator:
		return "PUNCTUATOR"
	case KindDirective:
		return "DIRECTIVE"
	case KindLineComment:
		return "LINE_COMMENT"
	case KindBlockComment:
		return "BLOCK_COMMENT"
	default:
		return "UNKNOWN"
	}
}

// Location pins a token to a position in the original source.
type Location struct {
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Token is one lexical unit, per spec.md §3.
type Token struct {
	Kind             Kind
	Text             string
	WhitespaceAfter  bool
	Location         Location
	// Incomplete is set on a KindBlockComment token whose closing `*/`
	// was not found before the physical line ended; the tokenizer
	// carries `in_multiline_block_comment` state into the next line.
	Incomplete bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s:%q@%s", t.Kind, t.Text, t.Location)
}

// IsKeyword reports whether an identifier token's text is a reserved C
// keyword the parser treats specially.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == KindIdentifier && t.Text == word
}
