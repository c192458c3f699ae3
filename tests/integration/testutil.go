// Package integration provides CLI integration tests for perankh. The
// binary is built once in TestMain and driven through exec.
package integration

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// perankhBin is the path to the built perankh binary.
	perankhBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// buildBinary compiles cmd/perankh into dir and records the result in the
// package globals.
func buildBinary(dir string) {
	perankhBin = filepath.Join(dir, "perankh")
	cmd := exec.Command("go", "build", "-o", perankhBin, "../../cmd/perankh")
	out, err := cmd.CombinedOutput()
	if err != nil {
		buildErr = &BuildError{Err: err, Output: string(out)}
	}
}

// cliResult captures one CLI invocation.
type cliResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runCLI executes the perankh binary with an isolated config dir and the
// given database file.
func runCLI(t *testing.T, configDir, dbPath string, args ...string) cliResult {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("binary build failed: %v", buildErr)
	}

	full := append([]string{"--config-dir", configDir, "--db", dbPath}, args...)
	cmd := exec.Command(perankhBin, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("run %v: %v", args, err)
	}

	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}
