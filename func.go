// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import "context"

// Func is a single stage of the expansion pipeline.
//
// The stages ([*StringifyFunc], [*ParseFunc], [*SynthesizeFunc]) are
// composed with [Compose2] and [Compose3], and the compiler checks that
// the output type of each stage matches the input of the next.
//
// A Func returns either a result or an error, never both.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter wraps a function as a [Func] implementation.
//
// Use this to splice custom processing into a pipeline, for example to
// reject addresses outside an allowed range after [*ParseFunc].
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}
