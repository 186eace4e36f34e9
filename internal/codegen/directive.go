// SPDX-License-Identifier: GPL-3.0-or-later

package codegen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
	"unicode"

	"github.com/bassosimone/sockaddr"
)

// DirectivePrefix starts every directive comment.
//
// Like //go:generate, there is no space after the slashes.
const DirectivePrefix = "//sockaddr:"

// directiveModes maps the directive verbs to expansion modes.
var directiveModes = map[string]sockaddr.Mode{
	"addr":   sockaddr.ModeConcrete,
	"family": sockaddr.ModeGeneric,
}

// Directive is a request to declare a socket address variable.
type Directive struct {
	// Mode is [sockaddr.ModeConcrete] for //sockaddr:addr and
	// [sockaddr.ModeGeneric] for //sockaddr:family.
	Mode sockaddr.Mode

	// Name is the name of the variable to declare.
	Name string

	// Text is the address text, verbatim.
	Text string

	// Pos is the position of the first byte of Text.
	Pos token.Position
}

// ExtractDirectives returns the directives in the comments of a Go file.
//
// The src argument has the same meaning as in [parser.ParseFile]. Syntax
// errors in the file and malformed directives are returned as diagnostics.
// When the file cannot be parsed the directives found so far are still
// returned.
func ExtractDirectives(fset *token.FileSet, filename string, src any) ([]*Directive, []*Diagnostic) {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)

	var diags []*Diagnostic
	if list, ok := err.(scanner.ErrorList); ok {
		for _, e := range list {
			diags = append(diags, &Diagnostic{Pos: e.Pos, Err: errors.New(e.Msg)})
		}
	} else if err != nil {
		diags = append(diags, &Diagnostic{Pos: token.Position{Filename: filename}, Err: err})
	}
	if file == nil {
		return nil, diags
	}

	var directives []*Directive
	for _, group := range file.Comments {
		for _, c := range group.List {
			d, diag := parseDirective(fset, c)
			if diag != nil {
				diags = append(diags, diag)
			}
			if d != nil {
				directives = append(directives, d)
			}
		}
	}
	return directives, diags
}

// parseDirective parses a single comment. It returns nil, nil for
// comments that are not directives.
func parseDirective(fset *token.FileSet, c *ast.Comment) (*Directive, *Diagnostic) {
	if !strings.HasPrefix(c.Text, DirectivePrefix) {
		return nil, nil
	}
	rest := c.Text[len(DirectivePrefix):]
	offset := len(DirectivePrefix)
	position := func(off int) token.Position {
		return fset.Position(c.Slash + token.Pos(off))
	}

	verb, rest, offset := nextField(rest, offset)
	mode, found := directiveModes[verb]
	if !found {
		return nil, Errorf(position(len(DirectivePrefix)), "unknown directive %q", DirectivePrefix+verb)
	}

	name, rest, offset := nextField(rest, offset)
	if name == "" {
		return nil, Errorf(position(offset), "%s%s: missing variable name", DirectivePrefix, verb)
	}
	if !token.IsIdentifier(name) {
		return nil, Errorf(position(offset-len(name)), "%s%s: %q is not a valid identifier", DirectivePrefix, verb, name)
	}

	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	offset += len(rest) - len(trimmed)
	text := strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if text == "" {
		return nil, Errorf(position(offset), "%s%s %s: missing address", DirectivePrefix, verb, name)
	}

	return &Directive{Mode: mode, Name: name, Text: text, Pos: position(offset)}, nil
}

// nextField splits the first space-separated field off s, where off is the
// offset of s within the comment. It returns the field, the remainder, and
// the offset of the remainder.
func nextField(s string, off int) (string, string, int) {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	off += len(s) - len(trimmed)
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		end = len(trimmed)
	}
	return trimmed[:end], trimmed[end:], off + end
}
