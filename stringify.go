// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Stringify reconstructs the source text of a [TokenStream].
//
// Identifiers, punctuation, and literals contribute their text unchanged.
// A [*Group] contributes its stringified children wrapped in the delimiter
// pair, or unwrapped for [None]. No whitespace is ever inserted, so the
// numeric and symbolic content of an address (dots, colons, brackets, hex
// digits) reaches the parser exactly as written.
//
// Stringify is total: every token stream, including an empty one, has a
// string form.
func Stringify(ts TokenStream) string {
	var sb strings.Builder
	stringify(&sb, ts)
	return sb.String()
}

func stringify(sb *strings.Builder, ts TokenStream) {
	for _, tok := range ts {
		switch tok := tok.(type) {
		case *Group:
			sb.WriteString(tok.Delimiter.Open())
			stringify(sb, tok.Stream)
			sb.WriteString(tok.Delimiter.Close())
		default:
			sb.WriteString(tok.String())
		}
	}
}

// NewStringifyFunc returns a new [*StringifyFunc].
//
// The cfg argument contains the common configuration.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewStringifyFunc(cfg *Config, logger SLogger) *StringifyFunc {
	return &StringifyFunc{
		Logger:  logger,
		TimeNow: cfg.TimeNow,
	}
}

// StringifyFunc is the [Func] form of [Stringify].
//
// It never fails.
type StringifyFunc struct {
	// Logger is the [SLogger] to use.
	//
	// Set by [NewStringifyFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time.
	//
	// Set by [NewStringifyFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[TokenStream, string] = &StringifyFunc{}

// Call invokes [Stringify] on the input.
func (op *StringifyFunc) Call(ctx context.Context, input TokenStream) (string, error) {
	text := Stringify(input)
	op.Logger.Debug(
		"stringify",
		slog.Int("numTokens", len(input)),
		slog.String("text", text),
		slog.Time("t", op.TimeNow()),
	)
	return text, nil
}
