// SPDX-License-Identifier: GPL-3.0-or-later

package codegen

import (
	"fmt"
	"go/token"
)

// Diagnostic is an error about a directive, with its source position.
//
// The value of Error() contains both Pos and Err. Unwrap() returns Err.
type Diagnostic struct {
	// Pos is the position of the offending text.
	Pos token.Position

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.Pos, d.Err)
}

// Unwrap returns the underlying error.
func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Errorf returns a [*Diagnostic] with a formatted error.
func Errorf(pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Err: fmt.Errorf(format, args...)}
}
