// SPDX-License-Identifier: GPL-3.0-or-later

// Command sockaddrgen declares socket address variables from directives.
//
// Run it through go:generate:
//
//	//go:generate go run github.com/bassosimone/sockaddr/cmd/sockaddrgen
//
//	//sockaddr:addr CloudflareDNS 1.1.1.1:53
//
// For each package it writes sockaddr_gen.go containing:
//
//	var CloudflareDNS = sockaddr.V4(sockaddr.NewSocketAddrV4(sockaddr.NewIPv4Addr(1, 1, 1, 1), 53))
//
// Invalid addresses are reported with their position and make the
// command exit with status 1. So do stale files in -check mode.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bassosimone/sockaddr/internal/codegen"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

// Config contains the command line options.
type Config struct {
	*cli.Command

	Dir         string `cli:"name=dir desc='directory to scan for Go files (default: current directory)'"`
	Recursive   bool   `cli:"name=recursive desc='scan subdirectories recursively'"`
	Output      string `cli:"name=o desc='name of the generated file in each package (default: sockaddr_gen.go)'"`
	Qualifier   string `cli:"name=qualifier desc='name used to refer to the sockaddr package (default: sockaddr)'"`
	Unqualified bool   `cli:"name=unqualified desc='generate code living inside the sockaddr package'"`
	Import      string `cli:"name=import desc='import path of the sockaddr package'"`
	Exclude     string `cli:"name=exclude desc='doublestar pattern of directories to skip, relative to -dir'"`
	Check       bool   `cli:"name=check desc='compare instead of writing, fail when a file is stale'"`
	Verbose     bool   `cli:"name=v desc='emit JSON logs on stderr'"`
}

// MainCommand returns the sockaddrgen command.
func MainCommand() *cli.Command {
	cfg := &Config{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "sockaddrgen").
		WithSynopsis("sockaddrgen [opts]").
		WithDescription("Generate socket address declarations from //sockaddr: directives.").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *Config) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	if cfg.Unqualified && cfg.Qualifier != "" {
		return fmt.Errorf("%w: cannot specify both -qualifier and -unqualified", cli.ErrUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failures, err := cfg.execute(ctx, os.Stderr)
	if err != nil {
		return err
	}
	if failures > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// execute runs the generator and reports problems to stderr. It returns
// the number of diagnostics and stale files.
func (cfg *Config) execute(ctx context.Context, stderr io.Writer) (int, error) {
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return 0, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	pkgs, err := codegen.DiscoverPackages(dir, cfg.Recursive, cfg.Exclude)
	if err != nil {
		return 0, fmt.Errorf("failed to discover packages: %w", err)
	}
	if len(pkgs) == 0 {
		return 0, fmt.Errorf("no Go packages found in %q", dir)
	}

	gen := codegen.NewGenerator(cfg.generatorConfig(), cfg.logger(stderr))
	results, err := gen.Run(ctx, pkgs)
	if err != nil {
		return 0, err
	}
	return report(stderr, results), nil
}

func (cfg *Config) generatorConfig() *codegen.Config {
	gcfg := codegen.NewConfig()
	gcfg.Check = cfg.Check
	if cfg.Output != "" {
		gcfg.Output = cfg.Output
	}
	if cfg.Import != "" {
		gcfg.ImportPath = cfg.Import
	}
	switch {
	case cfg.Unqualified:
		gcfg.Qualifier = ""
	case cfg.Qualifier != "":
		gcfg.Qualifier = cfg.Qualifier
	}
	return gcfg
}

func (cfg *Config) logger(stderr io.Writer) *slog.Logger {
	if !cfg.Verbose {
		return nil
	}
	return slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// report prints diagnostics and stale files and returns their number.
func report(w io.Writer, results []*codegen.Result) int {
	label := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		label.EnableColor()
	} else {
		label.DisableColor()
	}

	var count int
	for _, res := range results {
		for _, diag := range res.Diagnostics {
			fmt.Fprintf(w, "%s: %s %v\n", diag.Pos, label.Sprint("error:"), diag.Err)
			count++
		}
		if res.Stale {
			fmt.Fprintf(w, "%s: %s stale generated file\n%s", res.Path, label.Sprint("error:"), res.Diff)
			count++
		}
	}
	return count
}
