// Package version holds the build-time version metadata for simulor.
// Release builds inject Version, Commit, and Date via -ldflags; for
// go-install and local builds an init function falls back to
// runtime/debug.BuildInfo so the reported version always matches the
// build that produced the binary.
package version
