// SPDX-License-Identifier: GPL-3.0-or-later

// Package codegen implements the sockaddrgen code generator.
//
// The generator looks for directives in the comments of Go source files:
//
//	//sockaddr:addr NAME ADDRESS
//	//sockaddr:family NAME ADDRESS
//
// The first form declares NAME as a [sockaddr.SocketAddr]; the second
// declares NAME as either a [sockaddr.SocketAddrV4] or a
// [sockaddr.SocketAddrV6], depending on ADDRESS. The declarations of a
// package are written to a single generated file.
//
// An invalid ADDRESS is reported as a [*Diagnostic] and NAME is declared
// as a [sockaddr.CompileError] conversion, so the package stops
// compiling until the directive is fixed.
package codegen
