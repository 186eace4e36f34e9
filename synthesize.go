// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/bassosimone/runtimex"
)

// Mode selects the shape of the code produced by [Synthesize].
type Mode int

const (
	// ModeConcrete produces a [SocketAddr] by wrapping the family-specific
	// constructor call inside [V4] or [V6].
	ModeConcrete Mode = iota

	// ModeGeneric produces the bare [SocketAddrV4] or [SocketAddrV6]
	// constructor call matching the address family.
	ModeGeneric
)

// String returns "concrete" or "generic".
func (m Mode) String() string {
	switch m {
	case ModeGeneric:
		return "generic"
	default:
		return "concrete"
	}
}

// Synthesize returns tokens for a Go expression constructing sa.
//
// For 1.1.1.1:53 and [ModeConcrete] the expression is:
//
//	sockaddr.V4(sockaddr.NewSocketAddrV4(sockaddr.NewIPv4Addr(1, 1, 1, 1), 53))
//
// and for [ModeGeneric] it is the argument of V4. IPv6 addresses use
// [NewIPv6Addr], with nonzero segments in hexadecimal, and [NewSocketAddrV6]
// with port, flow information, and scope ID. The numeric arguments are
// copied from sa: the expression never parses text at run time.
//
// The qualifier is the package name prefixed to every identifier, or ""
// to emit unqualified identifiers.
//
// The output depends only on the arguments.
func Synthesize(sa SocketAddr, mode Mode, qualifier string) TokenStream {
	var inner TokenStream
	var variant string
	switch sa.Family() {
	case FamilyV6:
		v6, ok := sa.AsV6()
		runtimex.Assert(ok)
		inner, variant = synthesizeV6(v6, qualifier), "V6"
	default:
		v4, ok := sa.AsV4()
		runtimex.Assert(ok)
		inner, variant = synthesizeV4(v4, qualifier), "V4"
	}
	if mode == ModeGeneric {
		return inner
	}
	return call(qualifier, variant, inner)
}

func synthesizeV4(sa SocketAddrV4, qualifier string) TokenStream {
	octets := sa.IP().Octets()
	ip := call(qualifier, "NewIPv4Addr",
		decimal(uint64(octets[0])), decimal(uint64(octets[1])),
		decimal(uint64(octets[2])), decimal(uint64(octets[3])),
	)
	return call(qualifier, "NewSocketAddrV4", ip, decimal(uint64(sa.Port())))
}

func synthesizeV6(sa SocketAddrV6, qualifier string) TokenStream {
	segments := sa.IP().Segments()
	args := make([]TokenStream, 0, len(segments))
	for _, seg := range segments {
		args = append(args, hexadecimal(uint64(seg)))
	}
	ip := call(qualifier, "NewIPv6Addr", args...)
	return call(qualifier, "NewSocketAddrV6",
		ip,
		decimal(uint64(sa.Port())),
		decimal(uint64(sa.FlowInfo())),
		decimal(uint64(sa.ScopeID())),
	)
}

// call returns the tokens of `qualifier.name(args...)`.
func call(qualifier, name string, args ...TokenStream) TokenStream {
	var out TokenStream
	if qualifier != "" {
		out = append(out, Ident(qualifier), Punct("."))
	}
	group := &Group{Delimiter: Parenthesis}
	for idx, arg := range args {
		if idx > 0 {
			group.Stream = append(group.Stream, Punct(","))
		}
		group.Stream = append(group.Stream, arg...)
	}
	return append(out, Ident(name), group)
}

func decimal(value uint64) TokenStream {
	return TokenStream{Literal(strconv.FormatUint(value, 10))}
}

func hexadecimal(value uint64) TokenStream {
	if value == 0 {
		return decimal(0)
	}
	return TokenStream{Literal("0x" + strconv.FormatUint(value, 16))}
}

// NewSynthesizeFunc returns a new [*SynthesizeFunc].
//
// The cfg argument contains the common configuration.
//
// The mode argument selects the output shape.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewSynthesizeFunc(cfg *Config, mode Mode, logger SLogger) *SynthesizeFunc {
	return &SynthesizeFunc{
		Logger:    logger,
		Mode:      mode,
		Qualifier: cfg.Qualifier,
		TimeNow:   cfg.TimeNow,
	}
}

// SynthesizeFunc is the [Func] form of [Synthesize].
//
// It never fails.
type SynthesizeFunc struct {
	// Logger is the [SLogger] to use.
	//
	// Set by [NewSynthesizeFunc] to the user-provided logger.
	Logger SLogger

	// Mode is the output shape.
	//
	// Set by [NewSynthesizeFunc] to the user-provided value.
	Mode Mode

	// Qualifier is the package qualifier.
	//
	// Set by [NewSynthesizeFunc] from [Config.Qualifier].
	Qualifier string

	// TimeNow is the function to get the current time.
	//
	// Set by [NewSynthesizeFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[SocketAddr, TokenStream] = &SynthesizeFunc{}

// Call synthesizes the constructor expression for sa.
func (op *SynthesizeFunc) Call(ctx context.Context, sa SocketAddr) (TokenStream, error) {
	out := Synthesize(sa, op.Mode, op.Qualifier)
	op.Logger.Debug(
		"synthesize",
		slog.String("addr", sa.String()),
		slog.String("mode", op.Mode.String()),
		slog.String("code", Render(out)),
		slog.Time("t", op.TimeNow()),
	)
	return out, nil
}
