// Copyright (c) 2026 Mesh Intelligence. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the boxdata project using Mage.
//
// Usage:
//
//	mage build          Compile boxdata and boxprof to bin/
//	mage test           Run all tests
//	mage testShort      Run tests without the SQLite view
//	mage lint           Run golangci-lint
//	mage profile        Build boxprof and write a memory profile to bin/
//	mage clean          Remove build artifacts
//	mage install        Install boxdata to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "boxdata"
	binaryDir  = "bin"
	cmdDir     = "./cmd/boxdata"

	profBinary = "boxprof"
	profCmdDir = "./cmd/boxprof"
)

// Build compiles the boxdata and boxprof binaries to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	if err := sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(binaryDir, profBinary), profCmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestShort runs tests for every package except the SQLite view, which is
// the slowest to build.
func TestShort() error {
	pkgs, err := sh.Output("go", "list", "./...")
	if err != nil {
		return err
	}
	var short []string
	for _, pkg := range strings.Split(pkgs, "\n") {
		if pkg != "" && !strings.HasSuffix(pkg, "/sqlview") {
			short = append(short, pkg)
		}
	}
	args := append([]string{"test"}, short...)
	return sh.RunV("go", args...)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Profile runs boxprof and leaves mem.pprof in bin/.
func Profile() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, profBinary), "-mode", "mem", "-dir", binaryDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
