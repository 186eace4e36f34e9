// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"context"
	"log/slog"
	"time"
)

// NewExpandFunc returns the expansion pipeline for the given mode.
//
// The pipeline composes [*StringifyFunc], [*ParseFunc], and
// [*SynthesizeFunc]. It returns either the synthesized tokens or the
// [*AddressParseError]; use [ErrAsCompileError] to turn the latter into
// tokens. An expandDone event summarizes each call.
func NewExpandFunc(cfg *Config, mode Mode, logger SLogger) Func[TokenStream, TokenStream] {
	pipeline := Compose3(
		NewStringifyFunc(cfg, logger),
		NewParseFunc(cfg, logger),
		NewSynthesizeFunc(cfg, mode, logger),
	)
	return &expandFunc{
		errClassifier: cfg.ErrClassifier,
		logger:        logger,
		mode:          mode,
		pipeline:      pipeline,
		timeNow:       cfg.TimeNow,
	}
}

type expandFunc struct {
	errClassifier ErrClassifier
	logger        SLogger
	mode          Mode
	pipeline      Func[TokenStream, TokenStream]
	timeNow       func() time.Time
}

func (op *expandFunc) Call(ctx context.Context, input TokenStream) (TokenStream, error) {
	t0 := op.timeNow()
	out, err := op.pipeline.Call(ctx, input)
	op.logger.Info(
		"expandDone",
		slog.Any("err", err),
		slog.String("errClass", op.errClassifier.Classify(err)),
		slog.String("mode", op.mode.String()),
		slog.Time("t0", t0),
		slog.Time("t", op.timeNow()),
	)
	return out, err
}

// ExpandSocketAddr turns tokens spelling a socket address into tokens
// constructing a [SocketAddr] ([ModeConcrete]).
//
// Invalid addresses yield [ErrorTokens] instead. The input 1.1.1.1:53
// expands to:
//
//	sockaddr.V4(sockaddr.NewSocketAddrV4(sockaddr.NewIPv4Addr(1, 1, 1, 1), 53))
func ExpandSocketAddr(input TokenStream) TokenStream {
	return expand(input, ModeConcrete)
}

// ExpandSocketAddrFamily turns tokens spelling a socket address into
// tokens constructing either a [SocketAddrV4] or a [SocketAddrV6],
// depending on the address ([ModeGeneric]).
//
// Invalid addresses yield [ErrorTokens] instead. The input 1.1.1.1:53
// expands to:
//
//	sockaddr.NewSocketAddrV4(sockaddr.NewIPv4Addr(1, 1, 1, 1), 53)
func ExpandSocketAddrFamily(input TokenStream) TokenStream {
	return expand(input, ModeGeneric)
}

func expand(input TokenStream, mode Mode) TokenStream {
	cfg := NewConfig()
	out, err := NewExpandFunc(cfg, mode, DefaultSLogger()).Call(context.Background(), input)
	return ErrAsCompileError(out, err, cfg.Qualifier)
}
