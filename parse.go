// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"github.com/bassosimone/runtimex"
)

// AddressParseError is the error returned when text is not a valid
// socket address.
type AddressParseError struct {
	// Input is the text that failed to parse.
	Input string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *AddressParseError) Error() string {
	return fmt.Sprintf("sockaddr: invalid socket address %q: %s", e.Input, e.Err.Error())
}

// Unwrap returns the underlying cause.
func (e *AddressParseError) Unwrap() error {
	return e.Err
}

// Parse parses an IPv4 or IPv6 socket address.
//
// Accepted forms are "a.b.c.d:port" and "[h:h:h:h:h:h:h:h]:port", where the
// IPv6 address may use "::" compression and may embed a trailing IPv4 part.
// The port is mandatory and must fit into 16 bits. An IPv6 zone is accepted
// only if it is a decimal uint32, in which case it becomes the scope ID:
// "[fe80::1%3]:80". The flow information has no textual form and is zero.
//
// Errors are always of type [*AddressParseError].
func Parse(text string) (SocketAddr, error) {
	ap, err := netip.ParseAddrPort(text)
	if err != nil {
		return SocketAddr{}, &AddressParseError{Input: text, Err: err}
	}
	sa, err := FromAddrPort(ap)
	if err != nil {
		return SocketAddr{}, &AddressParseError{Input: text, Err: err}
	}
	return sa, nil
}

// MustParse is like [Parse] but panics on error.
//
// Use this at program initialization when the generator cannot be
// run: the address is still validated exactly once, at startup.
func MustParse(text string) SocketAddr {
	return runtimex.PanicOnError1(Parse(text))
}

// NewParseFunc returns a new [*ParseFunc].
//
// The cfg argument contains the common configuration.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewParseFunc(cfg *Config, logger SLogger) *ParseFunc {
	return &ParseFunc{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ParseFunc is the [Func] form of [Parse].
//
// Returns either a [SocketAddr] or an [*AddressParseError], never both.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ParseFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewParseFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	//
	// Set by [NewParseFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewParseFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[string, SocketAddr] = &ParseFunc{}

// Call parses the given text.
func (op *ParseFunc) Call(ctx context.Context, text string) (SocketAddr, error) {
	t0 := op.TimeNow()
	op.logParseStart(text, t0)
	sa, err := Parse(text)
	op.logParseDone(text, t0, sa, err)
	return sa, err
}

func (op *ParseFunc) logParseStart(text string, t0 time.Time) {
	op.Logger.Info(
		"parseStart",
		slog.String("text", text),
		slog.Time("t", t0),
	)
}

func (op *ParseFunc) logParseDone(text string, t0 time.Time, sa SocketAddr, err error) {
	var family, addr string
	if err == nil {
		family, addr = sa.Family().String(), sa.String()
	}
	op.Logger.Info(
		"parseDone",
		slog.String("addr", addr),
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("family", family),
		slog.String("text", text),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
}
