// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"fmt"
	"go/scanner"
	"go/token"
)

// TokenizeError is the error returned by [Tokenize].
type TokenizeError struct {
	// Offset is the byte offset of the offending character.
	Offset int

	// Msg describes the problem.
	Msg string
}

// Error implements error.
func (e *TokenizeError) Error() string {
	return fmt.Sprintf("sockaddr: offset %d: %s", e.Offset, e.Msg)
}

// Tokenize splits src into a [TokenStream] using the Go lexical grammar.
//
// Whitespace, comments, and automatically inserted semicolons are
// dropped. Matching (), [], and {} pairs become [*Group] tokens. Literals
// keep their exact source text, even when the scanner considers them
// malformed (e.g., the `1e` in `1e::1`), since the text is the payload.
//
// Unbalanced delimiters and illegal characters cause a [*TokenizeError].
func Tokenize(src string) (TokenStream, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var sc scanner.Scanner
	sc.Init(file, []byte(src), nil, 0)

	type frame struct {
		group  *Group
		offset int
	}
	root := &Group{Delimiter: None}
	stack := []frame{{group: root}}

	for {
		pos, tok, lit := sc.Scan()
		offset := file.Offset(pos)
		top := &stack[len(stack)-1]

		switch {
		case tok == token.EOF:
			if len(stack) > 1 {
				return nil, &TokenizeError{
					Offset: top.offset,
					Msg:    fmt.Sprintf("unclosed %q", top.group.Delimiter.Open()),
				}
			}
			return root.Stream, nil

		case tok == token.ILLEGAL:
			return nil, &TokenizeError{Offset: offset, Msg: fmt.Sprintf("illegal character %q", lit)}

		case tok == token.SEMICOLON && lit == "\n":
			// inserted by the scanner, not present in the source

		case tok == token.LPAREN || tok == token.LBRACK || tok == token.LBRACE:
			group := &Group{Delimiter: delimiterOf(tok)}
			top.group.Stream = append(top.group.Stream, group)
			stack = append(stack, frame{group: group, offset: offset})

		case tok == token.RPAREN || tok == token.RBRACK || tok == token.RBRACE:
			if len(stack) == 1 || top.group.Delimiter != delimiterOf(tok) {
				return nil, &TokenizeError{Offset: offset, Msg: fmt.Sprintf("unexpected %q", tok.String())}
			}
			stack = stack[:len(stack)-1]

		case tok == token.IDENT || tok.IsKeyword():
			top.group.Stream = append(top.group.Stream, Ident(lit))

		case tok.IsLiteral():
			top.group.Stream = append(top.group.Stream, Literal(lit))

		default:
			top.group.Stream = append(top.group.Stream, Punct(tok.String()))
		}
	}
}

func delimiterOf(tok token.Token) Delimiter {
	switch tok {
	case token.LPAREN, token.RPAREN:
		return Parenthesis
	case token.LBRACE, token.RBRACE:
		return Brace
	case token.LBRACK, token.RBRACK:
		return Bracket
	default:
		return None
	}
}
