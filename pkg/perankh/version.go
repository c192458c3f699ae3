// Package perankh exposes build metadata shared by the CLI and library code.
package perankh

// Version is the module version, overridable at build time via
// -ldflags "-X github.com/becked/per-ankh-sub000/pkg/perankh.Version=...".
var Version = "0.3.0-dev"
