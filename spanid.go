// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// A span is one expansion: the tokens of a single address going through
// stringification, parsing, and synthesis. Attach the ID to the logger
// with [*slog.Logger.With] so that all the events of an expansion share it.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
