// SPDX-License-Identifier: GPL-3.0-or-later

package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"time"

	"github.com/bassosimone/runtimex"
	"github.com/bassosimone/sockaddr"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Header is the first line of every generated file.
const Header = "// Code generated by sockaddrgen. DO NOT EDIT."

// DefaultImportPath is the import path of the sockaddr package.
const DefaultImportPath = "github.com/bassosimone/sockaddr"

// DefaultOutput is the default name of the generated file.
const DefaultOutput = "sockaddr_gen.go"

// Config configures a [*Generator].
//
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Check enables check mode: [*Generator.Run] compares the files on
	// disk with the generated source instead of writing them.
	Check bool

	// Concurrency is the maximum number of packages processed at once.
	//
	// Set by [NewConfig] to [runtime.GOMAXPROCS].
	Concurrency int

	// ImportPath is the import path of the sockaddr package.
	//
	// Set by [NewConfig] to [DefaultImportPath].
	ImportPath string

	// Output is the name of the generated file within each package.
	//
	// Set by [NewConfig] to [DefaultOutput].
	Output string

	// Qualifier is the name used to refer to the sockaddr package. When it
	// is empty, the generated code is meant to live in the sockaddr package
	// itself and there is no import.
	//
	// Set by [NewConfig] to [sockaddr.DefaultQualifier].
	Qualifier string

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Check:       false,
		Concurrency: runtime.GOMAXPROCS(0),
		ImportPath:  DefaultImportPath,
		Output:      DefaultOutput,
		Qualifier:   sockaddr.DefaultQualifier,
		TimeNow:     time.Now,
	}
}

// Result is the outcome of processing a package.
type Result struct {
	// Package is the processed package.
	Package *PackageInfo

	// Path is the path of the generated file.
	Path string

	// Source is the generated source, or nil when the package
	// contains no directives.
	Source []byte

	// Diagnostics contains the problems found in the package.
	Diagnostics []*Diagnostic

	// Stale is true, in check mode, when the file on disk differs
	// from Source.
	Stale bool

	// Diff is the unified diff between the file on disk and Source
	// when Stale is true.
	Diff string
}

// Generator writes the socket address declarations of packages.
//
// Construct using [NewGenerator].
type Generator struct {
	// Config is the configuration.
	//
	// Set by [NewGenerator] from the user-provided value.
	Config *Config

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewGenerator] to [sockaddr.DefaultErrClassifier].
	ErrClassifier sockaddr.ErrClassifier

	// Logger is the structured logger.
	//
	// Set by [NewGenerator] to the user-provided logger.
	Logger *slog.Logger
}

// NewGenerator creates a new [*Generator].
//
// A nil logger discards all output.
func NewGenerator(cfg *Config, logger *slog.Logger) *Generator {
	runtimex.Assert(cfg != nil)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		Config:        cfg,
		ErrClassifier: sockaddr.DefaultErrClassifier,
		Logger:        logger,
	}
}

// Run processes the given packages and writes (or, in check mode,
// compares) their generated files.
//
// The returned results are in the same order as pkgs. Diagnostics and
// stale files are reported through the results; the error is only set
// for failures that prevented processing a package.
func (g *Generator) Run(ctx context.Context, pkgs []*PackageInfo) ([]*Result, error) {
	results := make([]*Result, len(pkgs))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(g.Config.Concurrency, 1))
	for idx, pkg := range pkgs {
		grp.Go(func() error {
			res, err := g.Package(ctx, pkg)
			if err != nil {
				return err
			}
			if g.Config.Check {
				err = g.check(res)
			} else {
				err = g.write(res)
			}
			results[idx] = res
			return err
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package generates the source of the given package without touching
// the filesystem except for reading the package files.
func (g *Generator) Package(ctx context.Context, pkg *PackageInfo) (*Result, error) {
	t0 := g.Config.TimeNow()
	res := &Result{Package: pkg, Path: filepath.Join(pkg.Dir, g.Config.Output)}
	g.logGenerateStart(pkg, t0)

	var directives []*Directive
	fset := token.NewFileSet()
	for _, filename := range pkg.Files {
		if filepath.Base(filename) == g.Config.Output {
			continue
		}
		src, err := os.ReadFile(filename)
		if err != nil {
			g.logGenerateDone(pkg, t0, res, err)
			return nil, err
		}
		found, diags := ExtractDirectives(fset, filename, src)
		directives = append(directives, found...)
		res.Diagnostics = append(res.Diagnostics, diags...)
	}

	if len(directives) > 0 {
		source, err := g.generate(ctx, pkg, directives, res)
		if err != nil {
			g.logGenerateDone(pkg, t0, res, err)
			return nil, err
		}
		res.Source = source
	}

	g.logGenerateDone(pkg, t0, res, nil)
	return res, nil
}

func (g *Generator) generate(ctx context.Context, pkg *PackageInfo, directives []*Directive, res *Result) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\n", Header)
	fmt.Fprintf(&buf, "package %s\n\n", pkg.Name)
	switch q := g.Config.Qualifier; {
	case q == "":
		// same package
	case q == path.Base(g.Config.ImportPath):
		fmt.Fprintf(&buf, "import %q\n\n", g.Config.ImportPath)
	default:
		fmt.Fprintf(&buf, "import %s %q\n\n", q, g.Config.ImportPath)
	}

	declared := make(map[string]token.Position)
	for _, d := range directives {
		if prev, found := declared[d.Name]; found {
			res.Diagnostics = append(res.Diagnostics, Errorf(d.Pos, "%s redeclared, previous directive at %s", d.Name, prev))
			continue
		}
		declared[d.Name] = d.Pos

		expr, diag := g.expand(ctx, d)
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, diag)
		}
		fmt.Fprintf(&buf, "// %s is %s (%s:%d).\n", d.Name, d.Text, filepath.Base(d.Pos.Filename), d.Pos.Line)
		fmt.Fprintf(&buf, "var %s = %s\n\n", d.Name, sockaddr.Render(expr))
	}

	return imports.Process(res.Path, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// expand returns the expression for a directive and, on failure, the
// diagnostic matching the compile error the expression triggers.
func (g *Generator) expand(ctx context.Context, d *Directive) (sockaddr.TokenStream, *Diagnostic) {
	logger := g.Logger.With(slog.String("spanID", sockaddr.NewSpanID()), slog.String("name", d.Name))

	tokens, err := sockaddr.Tokenize(d.Text)
	if err != nil {
		pos := d.Pos
		var terr *sockaddr.TokenizeError
		if errors.As(err, &terr) {
			pos.Column += terr.Offset
			pos.Offset += terr.Offset
		}
		return sockaddr.ErrorTokens(err, g.Config.Qualifier), &Diagnostic{Pos: pos, Err: err}
	}

	scfg := sockaddr.NewConfig()
	scfg.ErrClassifier = g.ErrClassifier
	scfg.Qualifier = g.Config.Qualifier
	scfg.TimeNow = g.Config.TimeNow
	out, err := sockaddr.NewExpandFunc(scfg, d.Mode, logger).Call(ctx, tokens)
	if err != nil {
		return sockaddr.ErrorTokens(err, g.Config.Qualifier), &Diagnostic{Pos: d.Pos, Err: err}
	}
	return out, nil
}

// write updates the generated file on disk. A package without directives
// loses its stale generated file, if any, while a hand-written file with
// the same name is left alone.
func (g *Generator) write(res *Result) error {
	current, generated, err := readOutput(res.Path)
	switch {
	case err != nil:
		return err
	case res.Source == nil && !generated:
		return nil
	case res.Source == nil:
		return os.Remove(res.Path)
	case current != nil && !generated:
		return errNotGenerated(res.Path)
	case bytes.Equal(current, res.Source):
		return nil
	default:
		return os.WriteFile(res.Path, res.Source, 0644)
	}
}

// check sets res.Stale and res.Diff.
func (g *Generator) check(res *Result) error {
	current, generated, err := readOutput(res.Path)
	switch {
	case err != nil:
		return err
	case res.Source == nil && !generated:
		return nil
	case current != nil && !generated:
		return errNotGenerated(res.Path)
	case bytes.Equal(current, res.Source):
		return nil
	}
	res.Stale = true
	res.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(res.Source)),
		FromFile: res.Path,
		ToFile:   res.Path + " (generated)",
		Context:  2,
	})
	return err
}

// readOutput returns the content of the output file, or nil when it does
// not exist, and whether the content starts with [Header].
func readOutput(filename string) ([]byte, bool, error) {
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	default:
		return data, bytes.HasPrefix(data, []byte(Header)), nil
	}
}

func errNotGenerated(filename string) error {
	return fmt.Errorf("%s: not generated by sockaddrgen, refusing to overwrite", filename)
}

func (g *Generator) logGenerateStart(pkg *PackageInfo, t0 time.Time) {
	g.Logger.Info(
		"generateStart",
		slog.String("dir", pkg.Dir),
		slog.Int("numFiles", len(pkg.Files)),
		slog.String("package", pkg.Name),
		slog.Time("t", t0),
	)
}

func (g *Generator) logGenerateDone(pkg *PackageInfo, t0 time.Time, res *Result, err error) {
	g.Logger.Info(
		"generateDone",
		slog.String("dir", pkg.Dir),
		slog.Any("err", err),
		slog.String("errClass", g.ErrClassifier.Classify(err)),
		slog.Int("numDiagnostics", len(res.Diagnostics)),
		slog.String("package", pkg.Name),
		slog.Int("size", len(res.Source)),
		slog.Time("t0", t0),
		slog.Time("t", g.Config.TimeNow()),
	)
}
