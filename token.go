// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"strings"
)

// Token is a lexical unit of a [TokenStream].
//
// The concrete types are [Ident], [Punct], [Literal], and [*Group]. The
// set is closed: code switching on a Token may assume no other types exist.
type Token interface {
	// String returns the canonical source text of the token.
	String() string

	isToken()
}

// Ident is an identifier or keyword token.
type Ident string

// Punct is an operator or punctuation token (e.g., ":", ".", ",").
type Punct string

// Literal is a literal token, kept as raw source text (e.g., `53`, `0x2606`,
// `"hello"`). The text is never reinterpreted.
type Literal string

// Delimiter is the delimiter kind of a [*Group].
type Delimiter int

const (
	// None is an invisible delimiter: the group contributes no characters.
	None Delimiter = iota

	// Parenthesis is the ( ... ) delimiter.
	Parenthesis

	// Brace is the { ... } delimiter.
	Brace

	// Bracket is the [ ... ] delimiter.
	Bracket
)

// Open returns the opening character of the delimiter, or "" for [None].
func (d Delimiter) Open() string {
	switch d {
	case Parenthesis:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing character of the delimiter, or "" for [None].
func (d Delimiter) Close() string {
	switch d {
	case Parenthesis:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// Group is a delimited sub-sequence of tokens.
type Group struct {
	// Delimiter is the delimiter wrapping the stream.
	Delimiter Delimiter

	// Stream contains the tokens inside the delimiters.
	Stream TokenStream
}

// NewGroup returns a [*Group] wrapping the given tokens.
func NewGroup(delim Delimiter, tokens ...Token) *Group {
	return &Group{Delimiter: delim, Stream: TokenStream(tokens)}
}

// TokenStream is an ordered sequence of tokens.
type TokenStream []Token

var (
	_ Token = Ident("")
	_ Token = Punct("")
	_ Token = Literal("")
	_ Token = &Group{}
)

// String implements [Token].
func (t Ident) String() string { return string(t) }

// String implements [Token].
func (t Punct) String() string { return string(t) }

// String implements [Token].
func (t Literal) String() string { return string(t) }

// String implements [Token].
//
// This is equivalent to calling [Stringify] on a stream containing only the group.
func (g *Group) String() string {
	return g.Delimiter.Open() + Stringify(g.Stream) + g.Delimiter.Close()
}

func (Ident) isToken()   {}
func (Punct) isToken()   {}
func (Literal) isToken() {}
func (*Group) isToken()  {}

// String returns the result of [Stringify].
func (ts TokenStream) String() string {
	return Stringify(ts)
}

// Render returns Go source text for the stream.
//
// Unlike [Stringify], Render separates adjacent word-like tokens (identifiers
// and literals) with a space so they do not fuse, and follows each comma with
// a space. The result is valid input for [go/format.Source].
func Render(ts TokenStream) string {
	var sb strings.Builder
	render(&sb, ts)
	return sb.String()
}

func render(sb *strings.Builder, ts TokenStream) {
	var prev Token
	for _, tok := range ts {
		if isWordLike(prev) && isWordLike(tok) {
			sb.WriteByte(' ')
		}
		switch tok := tok.(type) {
		case *Group:
			sb.WriteString(tok.Delimiter.Open())
			render(sb, tok.Stream)
			sb.WriteString(tok.Delimiter.Close())
		case Punct:
			sb.WriteString(string(tok))
			if tok == "," {
				sb.WriteByte(' ')
			}
		default:
			sb.WriteString(tok.String())
		}
		prev = tok
	}
}

func isWordLike(tok Token) bool {
	switch tok.(type) {
	case Ident, Literal:
		return true
	default:
		return false
	}
}
