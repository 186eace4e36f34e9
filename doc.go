// SPDX-License-Identifier: GPL-3.0-or-later

// Package sockaddr validates socket address literals at build time.
//
// Passing an address string such as "127.0.0.1:8080" around and parsing it
// when the program runs turns a typo into a runtime failure. This package
// moves the parsing into `go generate`: the sockaddrgen command reads
// directives like
//
//	//sockaddr:addr listenAddr 127.0.0.1:8080
//	//sockaddr:family resolverAddr [2606:4700:4700::1111]:53
//
// and writes a Go file declaring
//
//	var listenAddr = sockaddr.V4(sockaddr.NewSocketAddrV4(sockaddr.NewIPv4Addr(127, 0, 0, 1), 8080))
//	var resolverAddr = sockaddr.NewSocketAddrV6(sockaddr.NewIPv6Addr(0x2606, 0x4700, 0x4700, 0, 0, 0, 0, 0x1111), 53, 0, 0)
//
// A malformed address produces a declaration that cannot compile, so the
// mistake is reported by `go build` together with the parser's message.
//
// # Pipeline
//
// Each directive is expanded by three stages composed with [Compose3]:
//
//   - [*StringifyFunc]: rebuilds the address text from its [TokenStream]
//   - [*ParseFunc]: parses the text into a [SocketAddr] using [net/netip]
//   - [*SynthesizeFunc]: emits tokens for the equivalent constructor calls
//
// [ExpandSocketAddr] and [ExpandSocketAddrFamily] are the two entry points.
// The former always produces a [SocketAddr]; the latter produces either a
// [SocketAddrV4] or a [SocketAddrV6]. On failure both produce [ErrorTokens].
//
// # Address Types
//
// [SocketAddr] is a tagged union over [SocketAddrV4] and [SocketAddrV6].
// The types are plain comparable values; they convert to [netip.AddrPort],
// [*net.TCPAddr], and [*net.UDPAddr] for use with the net package.
//
// When running the generator is not an option, [MustParse] offers the
// next best thing: validate once at program initialization.
//
// # Observability
//
// All stages support structured logging via [SLogger] (compatible with
// [log/slog]). By default, logging is disabled. Errors are classified
// with [ErrClassifier] for the errClass field of *Done events.
package sockaddr
