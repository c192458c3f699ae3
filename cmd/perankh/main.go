// Package main provides the perankh CLI for importing and browsing Old
// World game saves.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/becked/per-ankh-sub000/internal/store"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps expected user mistakes to exitUserError and everything
// else to exitSysError.
func exitCode(err error) int {
	switch {
	case errors.Is(err, store.ErrCollectionNotFound),
		errors.Is(err, store.ErrDuplicateCollection),
		errors.Is(err, store.ErrDefaultCollection):
		return exitUserError
	default:
		return exitSysError
	}
}
