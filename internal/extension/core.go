package extension

import "github.com/simulor-project/simulor/internal/version"

// ModuleName is the name the core simulor module registers under.
const ModuleName = "simulor"

// VersionKey is the namespace key for the build version binding.
const VersionKey = "__version__"

// Bootstrap publishes the core module's namespace: exactly one binding,
// VersionKey → the build-time version string. It performs no other work
// so that future bindings can be layered in without touching the load
// contract.
func Bootstrap(ns *Namespace) error {
	return ns.Set(VersionKey, version.Version)
}

// Default is the process-wide registry, with the core module registered.
var Default = NewRegistry()

func init() {
	Default.Register(ModuleName, Bootstrap)
}
