// Package extension implements the loadable-module bootstrap surface.
//
// A Namespace is the key-value surface the host process sees for one
// loaded module; a Registry maps module names to bootstrap functions and
// guarantees each module is loaded at most once per process. The core
// simulor module registers a bootstrap that publishes exactly one binding:
// the build version under VersionKey. Anything heavier belongs in the
// packages layered on top, not in a bootstrap.
package extension
