// SPDX-License-Identifier: GPL-3.0-or-later

package codegen

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bassosimone/sockaddr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discoverOne returns the single package in dir.
func discoverOne(t *testing.T, dir string) *PackageInfo {
	t.Helper()
	pkgs, err := DiscoverPackages(dir, false, "")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	return pkgs[0]
}

func TestGeneratorPackageGolden(t *testing.T) {
	pkg := discoverOne(t, filepath.Join("testdata", "servers"))
	want, err := os.ReadFile(filepath.Join("testdata", "servers", "sockaddr_gen.go.golden"))
	require.NoError(t, err)

	res, err := NewGenerator(NewConfig(), nil).Package(context.Background(), pkg)

	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, filepath.Join(pkg.Dir, DefaultOutput), res.Path)
	if diff := cmp.Diff(string(want), string(res.Source)); diff != "" {
		t.Fatalf("generated source mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorQualifier(t *testing.T) {
	cases := []struct {
		// name is the subtest name
		name string

		// qualifier is the configured qualifier
		qualifier string

		// wantImport is the expected import line, empty for none
		wantImport string

		// wantExpr is the expected expression
		wantExpr string
	}{{
		name:       "default",
		qualifier:  sockaddr.DefaultQualifier,
		wantImport: `import "github.com/bassosimone/sockaddr"`,
		wantExpr:   "sockaddr.NewSocketAddrV4(sockaddr.NewIPv4Addr(10, 0, 0, 1), 80)",
	}, {
		name:       "renamed import",
		qualifier:  "sa",
		wantImport: `import sa "github.com/bassosimone/sockaddr"`,
		wantExpr:   "sa.NewSocketAddrV4(sa.NewIPv4Addr(10, 0, 0, 1), 80)",
	}, {
		name:      "same package",
		qualifier: "",
		wantExpr:  "NewSocketAddrV4(NewIPv4Addr(10, 0, 0, 1), 80)",
	}}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeTree(t, map[string]string{
				"p.go": "package p\n\n//sockaddr:family Web 10.0.0.1:80\n",
			})
			cfg := NewConfig()
			cfg.Qualifier = tc.qualifier

			res, err := NewGenerator(cfg, nil).Package(context.Background(), discoverOne(t, dir))

			require.NoError(t, err)
			src := string(res.Source)
			if tc.wantImport != "" {
				assert.Contains(t, src, "\n"+tc.wantImport+"\n")
			} else {
				assert.NotContains(t, src, "import")
			}
			assert.Contains(t, src, "\nvar Web = "+tc.wantExpr+"\n")
		})
	}
}

func TestGeneratorDiagnostics(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go": `package p

//sockaddr:addr Good 1.1.1.1:53
//sockaddr:addr NoPort 1.1.1.1
//sockaddr:addr Illegal 1.1.1.1:53#
`,
		"b.go": `package p

//sockaddr:family Good [::1]:53
//sockaddr:bogus X 1
`,
	})

	res, err := NewGenerator(NewConfig(), nil).Package(context.Background(), discoverOne(t, dir))
	require.NoError(t, err)

	// the extraction diagnostics come first, then the expansion ones
	var got []string
	for _, diag := range res.Diagnostics {
		got = append(got, diag.Error())
	}
	require.Len(t, got, 4)
	assert.Equal(t, filepath.Join(dir, "b.go")+`:4:12: unknown directive "//sockaddr:bogus"`, got[0])
	assert.Equal(t, filepath.Join(dir, "a.go")+`:4:24: sockaddr: invalid socket address "1.1.1.1": not an ip:port`, got[1])
	assert.True(t, strings.HasPrefix(got[2], filepath.Join(dir, "a.go")+":5:35: "), got[2])
	assert.True(t, strings.HasPrefix(got[3], filepath.Join(dir, "b.go")+":3:24: Good redeclared"), got[3])

	var perr *sockaddr.AddressParseError
	require.ErrorAs(t, res.Diagnostics[1], &perr)
	assert.Equal(t, "1.1.1.1", perr.Input)

	// the failing directives still produce a declaration that cannot compile
	src := string(res.Source)
	assert.Contains(t, src, "var Good = sockaddr.V4(")
	assert.Contains(t, src, `var NoPort = sockaddr.CompileError("sockaddr: invalid socket address \"1.1.1.1\": not an ip:port")`)
	assert.Contains(t, src, "var Illegal = sockaddr.CompileError(")
	assert.Equal(t, 1, strings.Count(src, "var Good ="))
}

func TestNewGeneratorRequiresConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewGenerator(nil, nil)
	})
}

func TestGeneratorNoDirectives(t *testing.T) {
	dir := writeTree(t, map[string]string{"p.go": "package p\n"})

	res, err := NewGenerator(NewConfig(), nil).Package(context.Background(), discoverOne(t, dir))

	require.NoError(t, err)
	assert.Nil(t, res.Source)
	assert.Empty(t, res.Diagnostics)
}

func TestGeneratorRun(t *testing.T) {
	const source = "package p\n\n//sockaddr:addr DNS 8.8.8.8:53\n"

	t.Run("writes, rewrites, and removes the generated file", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"p.go": source})
		output := filepath.Join(dir, DefaultOutput)
		gen := NewGenerator(NewConfig(), nil)

		results, err := gen.Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})
		require.NoError(t, err)
		require.Len(t, results, 1)
		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, results[0].Source, data)

		// the generated file is now part of the package but is ignored
		results, err = gen.Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})
		require.NoError(t, err)
		assert.Empty(t, results[0].Diagnostics)
		data, err = os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, results[0].Source, data)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "p.go"), []byte("package p\n"), 0644))
		_, err = gen.Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})
		require.NoError(t, err)
		assert.NoFileExists(t, output)
	})

	t.Run("refuses to overwrite a file it did not generate", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"p.go":        source,
			DefaultOutput: "package p\n",
		})

		_, err := NewGenerator(NewConfig(), nil).Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "refusing to overwrite")
	})

	t.Run("leaves a hand-written file alone when there are no directives", func(t *testing.T) {
		for _, check := range []bool{false, true} {
			dir := writeTree(t, map[string]string{
				"p.go":        "package p\n",
				DefaultOutput: "package p\n\nvar Handwritten = 1\n",
			})
			cfg := NewConfig()
			cfg.Check = check

			results, err := NewGenerator(cfg, nil).Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})

			require.NoError(t, err)
			assert.False(t, results[0].Stale)
			data, err := os.ReadFile(filepath.Join(dir, DefaultOutput))
			require.NoError(t, err)
			assert.Equal(t, "package p\n\nvar Handwritten = 1\n", string(data))
		}
	})

	t.Run("includes files excluded by build constraints", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"p.go":       "package p\n",
			"p_never.go": "//go:build sockaddr_never\n\npackage p\n\n//sockaddr:addr Hidden 10.0.0.9:9\n",
		})

		results, err := NewGenerator(NewConfig(), nil).Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})

		require.NoError(t, err)
		assert.Contains(t, string(results[0].Source), "\nvar Hidden = sockaddr.V4(")
	})

	t.Run("processes many packages", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"a/a.go": "package a\n\n//sockaddr:addr A 10.0.0.1:1\n",
			"b/b.go": "package b\n\n//sockaddr:addr B 10.0.0.2:2\n",
			"c/c.go": "package c\n\n//sockaddr:addr C 10.0.0.3:3\n",
		})
		pkgs, err := DiscoverPackages(root, true, "")
		require.NoError(t, err)
		cfg := NewConfig()
		cfg.Concurrency = 2

		results, err := NewGenerator(cfg, nil).Run(context.Background(), pkgs)

		require.NoError(t, err)
		require.Len(t, results, 3)
		for idx, name := range []string{"a", "b", "c"} {
			assert.Equal(t, name, results[idx].Package.Name)
			assert.FileExists(t, filepath.Join(root, name, DefaultOutput))
		}
	})
}

func TestGeneratorCheck(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"p.go": "package p\n\n//sockaddr:addr DNS 8.8.8.8:53\n",
	})
	cfg := NewConfig()
	cfg.Check = true
	gen := NewGenerator(cfg, nil)

	results, err := gen.Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})
	require.NoError(t, err)
	assert.True(t, results[0].Stale)
	assert.Contains(t, results[0].Diff, "+var DNS = sockaddr.V4(")
	assert.NoFileExists(t, filepath.Join(dir, DefaultOutput), "check mode must not write")

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultOutput), results[0].Source, 0644))
	results, err = gen.Run(context.Background(), []*PackageInfo{discoverOne(t, dir)})
	require.NoError(t, err)
	assert.False(t, results[0].Stale)
	assert.Empty(t, results[0].Diff)
}

func TestGeneratorLogging(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"p.go": "package p\n\n//sockaddr:addr A 1.1.1.1:53\n//sockaddr:addr B 1.1.1.1\n",
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := NewConfig()
	cfg.TimeNow = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	_, err := NewGenerator(cfg, logger).Package(context.Background(), discoverOne(t, dir))
	require.NoError(t, err)

	var records []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var record map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NotEmpty(t, records)

	assert.Equal(t, "generateStart", records[0]["msg"])
	last := records[len(records)-1]
	assert.Equal(t, "generateDone", last["msg"])
	assert.Equal(t, float64(1), last["numDiagnostics"])
	assert.Equal(t, "", last["errClass"])

	// every expansion event carries the span ID of its directive
	spans := make(map[string]string)
	for _, record := range records[1 : len(records)-1] {
		name, _ := record["name"].(string)
		spanID, _ := record["spanID"].(string)
		require.NotEmpty(t, spanID, "event %v lacks a span ID", record["msg"])
		if prev, found := spans[name]; found {
			assert.Equal(t, prev, spanID)
		}
		spans[name] = spanID
		if record["msg"] == "expandDone" && name == "B" {
			assert.Equal(t, sockaddr.EADDRSYNTAX, record["errClass"])
		}
	}
	require.Len(t, spans, 2)
	assert.NotEqual(t, spans["A"], spans["B"])
}
