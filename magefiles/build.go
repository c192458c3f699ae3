//go:build mage

// Package main provides build targets for the perankh project using Mage.
//
// Usage:
//
//	mage build      Compile the perankh binary to bin/
//	mage test:all   Run all tests
//	mage test:unit  Run unit tests, excluding tests/
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install perankh to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "perankh"
	binaryDir  = "bin"
	cmdDir     = "./cmd/perankh"
)

// Build compiles the perankh binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install installs perankh to GOPATH/bin.
func Install() error {
	return sh.RunV(binGo, "install", cmdDir)
}
