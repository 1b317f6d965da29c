//go:build mage

// Package main contains Mage build targets for sheetfinder developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "sheetfinder"
	cmdPkg     = "./cmd/sheetfinder"
	versionPkg = "github.com/pdiddy/sheetfinder/internal/version"
)

// Build compiles the CLI binary into bin/ with version metadata.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// ldflags injects version, commit and build date. Outside a git checkout
// the commit stays "unknown".
func ldflags() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "unknown"
	}
	return strings.Join([]string{
		"-X " + versionPkg + ".Version=" + version,
		"-X " + versionPkg + ".Commit=" + commit,
		"-X " + versionPkg + ".Date=" + time.Now().UTC().Format(time.RFC3339),
	}, " ")
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests, then builds.
func Check() error {
	mg.SerialDeps(Vet, Test)
	return Build()
}

// Stats prints project metrics: Go production/test lines of code and the
// number of packages.
func Stats() error {
	prod, test, pkgs, err := countGo(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	fmt.Printf("Packages:                       %d\n", pkgs)
	return nil
}

// countGo counts non-blank lines in Go files under root, split into
// production and test files, and the directories holding Go files.
// Directories starting with "_" or "." are skipped, as the go tool does.
func countGo(root string) (prod, test, pkgs int, err error) {
	dirs := make(map[string]bool)
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		if strings.HasSuffix(name, "_test.go") {
			test += n
		} else {
			prod += n
		}
		dirs[filepath.Dir(path)] = true
		return nil
	})
	return prod, test, len(dirs), err
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}
