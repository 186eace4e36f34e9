// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"strconv"
	"testing"

	"github.com/bassosimone/slogstub"
	"github.com/stretchr/testify/require"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// recordAttr returns the value of the named attribute of record.
func recordAttr(record slog.Record, name string) (value slog.Value, found bool) {
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == name {
			value, found = attr.Value, true
			return false
		}
		return true
	})
	return
}

// evalGo evaluates a synthesized expression by parsing it as Go source and
// calling the constructors it names. It stands in for compiling the
// generated code: if evalGo accepts the source, so does the compiler.
func evalGo(t *testing.T, src string) any {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	require.NoError(t, err)
	return evalNode(t, expr)
}

func evalNode(t *testing.T, node ast.Expr) any {
	t.Helper()
	switch node := node.(type) {
	case *ast.BasicLit:
		require.Equal(t, token.INT, node.Kind)
		value, err := strconv.ParseUint(node.Value, 0, 64)
		require.NoError(t, err)
		return value

	case *ast.CallExpr:
		sel, ok := node.Fun.(*ast.SelectorExpr)
		require.True(t, ok, "expected a qualified call")
		pkg, ok := sel.X.(*ast.Ident)
		require.True(t, ok)
		require.Equal(t, DefaultQualifier, pkg.Name)

		var args []any
		for _, arg := range node.Args {
			args = append(args, evalNode(t, arg))
		}
		return evalCall(t, sel.Sel.Name, args)

	default:
		t.Fatalf("unexpected node %T", node)
		return nil
	}
}

func evalCall(t *testing.T, name string, args []any) any {
	t.Helper()
	u8 := func(v any) uint8 {
		n := v.(uint64)
		require.LessOrEqual(t, n, uint64(0xff))
		return uint8(n)
	}
	u16 := func(v any) uint16 {
		n := v.(uint64)
		require.LessOrEqual(t, n, uint64(0xffff))
		return uint16(n)
	}
	u32 := func(v any) uint32 {
		n := v.(uint64)
		require.LessOrEqual(t, n, uint64(0xffffffff))
		return uint32(n)
	}

	switch name {
	case "NewIPv4Addr":
		require.Len(t, args, 4)
		return NewIPv4Addr(u8(args[0]), u8(args[1]), u8(args[2]), u8(args[3]))

	case "NewIPv6Addr":
		require.Len(t, args, 8)
		return NewIPv6Addr(
			u16(args[0]), u16(args[1]), u16(args[2]), u16(args[3]),
			u16(args[4]), u16(args[5]), u16(args[6]), u16(args[7]),
		)

	case "NewSocketAddrV4":
		require.Len(t, args, 2)
		return NewSocketAddrV4(args[0].(IPv4Addr), u16(args[1]))

	case "NewSocketAddrV6":
		require.Len(t, args, 4)
		return NewSocketAddrV6(args[0].(IPv6Addr), u16(args[1]), u32(args[2]), u32(args[3]))

	case "V4":
		require.Len(t, args, 1)
		return V4(args[0].(SocketAddrV4))

	case "V6":
		require.Len(t, args, 1)
		return V6(args[0].(SocketAddrV6))

	default:
		t.Fatalf("call to %s does not compile", name)
		return nil
	}
}
