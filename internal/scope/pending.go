package scope

import (
	"strings"

	"ccforest/internal/lex"
)

// PendingBuffer is a per-branch FIFO of tokens not yet bound to
// semantics, carried across lines, per spec.md §3/§4.3.
type PendingBuffer struct {
	tokens []lex.Token
}

// Push appends one or more tokens to the buffer.
func (p *PendingBuffer) Push(tokens ...lex.Token) {
	p.tokens = append(p.tokens, tokens...)
}

// Clear empties the buffer.
func (p *PendingBuffer) Clear() {
	p.tokens = nil
}

// HasPending reports whether any tokens are buffered.
func (p *PendingBuffer) HasPending() bool {
	return len(p.tokens) > 0
}

// Tokens returns the buffered tokens in FIFO order.
func (p *PendingBuffer) Tokens() []lex.Token {
	return p.tokens
}

// Render produces a textual rendering used for diagnostics only, per
// spec.md §4.3.
func (p *PendingBuffer) Render() string {
	var sb strings.Builder
	for i, t := range p.tokens {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// ShallowCopy returns an independent buffer with the same contents,
// used when a branch forks (spec.md §4.3).
func (p *PendingBuffer) ShallowCopy() *PendingBuffer {
	copied := make([]lex.Token, len(p.tokens))
	copy(copied, p.tokens)
	return &PendingBuffer{tokens: copied}
}

// Equal compares two pending buffers token-for-token (by kind and text,
// ignoring source location) — used by Branch.JoinPossible.
func (p *PendingBuffer) Equal(other *PendingBuffer) bool {
	if len(p.tokens) != len(other.tokens) {
		return false
	}
	for i := range p.tokens {
		if p.tokens[i].Kind != other.tokens[i].Kind || p.tokens[i].Text != other.tokens[i].Text {
			return false
		}
	}
	return true
}
