// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import "strconv"

// CompileError is a type that no string constant converts to.
//
// [ErrorTokens] emits `sockaddr.CompileError("message")` in place of an
// address that failed to parse. The Go type checker rejects the conversion
// and quotes the constant in its diagnostic, so the build fails with the
// original error message, for example:
//
//	cannot convert "sockaddr: invalid socket address ..." (untyped string constant) to type sockaddr.CompileError
type CompileError struct{}

// ErrorTokens returns tokens for an expression that never compiles and
// whose compiler diagnostic contains err's message.
func ErrorTokens(err error, qualifier string) TokenStream {
	return call(qualifier, "CompileError", TokenStream{Literal(strconv.Quote(err.Error()))})
}

// ErrAsCompileError returns ts when err is nil and [ErrorTokens] otherwise.
//
// Callers never see a partial result: either the synthesized expression
// or the failing one.
func ErrAsCompileError(ts TokenStream, err error, qualifier string) TokenStream {
	if err != nil {
		return ErrorTokens(err, qualifier)
	}
	return ts
}
