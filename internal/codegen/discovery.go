// SPDX-License-Identifier: GPL-3.0-or-later

package codegen

import (
	"errors"
	"fmt"
	"go/build"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PackageInfo describes a Go package directory to process.
type PackageInfo struct {
	// Dir is the absolute path of the package directory.
	Dir string

	// Name is the package name.
	Name string

	// Files contains the absolute paths of the non-test Go files.
	Files []string
}

// DiscoverPackages discovers Go packages in the given directory.
//
// The files of a package include those excluded by build constraints
// (e.g., foo_windows.go on Linux) as long as they belong to the same
// package, so that the generated declarations do not depend on the host.
//
// If recursive is true, it scans subdirectories recursively. Hidden
// directories, vendor, and testdata are always skipped, and so are the
// directories whose slash-separated path relative to dir matches the
// exclude pattern (doublestar syntax, e.g. "internal/**"). An empty
// exclude pattern matches nothing.
func DiscoverPackages(dir string, recursive bool, exclude string) ([]*PackageInfo, error) {
	if exclude != "" && !doublestar.ValidatePattern(exclude) {
		return nil, fmt.Errorf("invalid exclude pattern %q", exclude)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", dir, err)
	}

	var packages []*PackageInfo
	err = filepath.WalkDir(absDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}

		if path != absDir {
			if !recursive {
				return filepath.SkipDir
			}
			base := entry.Name()
			if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata" {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(absDir, path)
			if err != nil {
				return err
			}
			if excluded, _ := doublestar.Match(exclude, filepath.ToSlash(rel)); exclude != "" && excluded {
				return filepath.SkipDir
			}
		}

		pkg, err := build.ImportDir(path, 0)
		var noGo *build.NoGoError
		switch {
		case errors.As(err, &noGo):
			return nil
		case err != nil:
			return fmt.Errorf("failed to load package in %q: %w", path, err)
		}

		files := make([]string, 0, len(pkg.GoFiles))
		for _, name := range pkg.GoFiles {
			files = append(files, filepath.Join(path, name))
		}
		for _, name := range pkg.IgnoredGoFiles {
			filename := filepath.Join(path, name)
			if strings.HasSuffix(name, "_test.go") || !inPackage(filename, pkg.Name) {
				continue
			}
			files = append(files, filename)
		}
		slices.Sort(files)
		packages = append(packages, &PackageInfo{
			Dir:   path,
			Name:  pkg.Name,
			Files: files,
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", dir, err)
	}

	return packages, nil
}

// inPackage returns whether the package clause of filename names pkgName.
func inPackage(filename, pkgName string) bool {
	file, err := parser.ParseFile(token.NewFileSet(), filename, nil, parser.PackageClauseOnly)
	return err == nil && file.Name.Name == pkgName
}
