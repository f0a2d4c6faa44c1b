package extension

import (
	"fmt"
	"sort"
)

// Namespace is the key-value surface published by one loaded module.
// Bindings can only be added while the namespace is open; the registry
// seals it after a successful load, after which Set fails with
// ErrSealed. A Namespace is not safe for concurrent mutation; the
// registry serializes all writes during load.
type Namespace struct {
	bindings map[string]any
	sealed   bool
}

// NewNamespace returns an empty, open namespace.
func NewNamespace() *Namespace {
	return &Namespace{bindings: make(map[string]any)}
}

// Set inserts one binding. It fails if the namespace has been sealed or
// the key is already bound; a module must not silently overwrite its own
// exports.
func (ns *Namespace) Set(key string, value any) error {
	if ns.sealed {
		return fmt.Errorf("%w: cannot bind %q", ErrSealed, key)
	}
	if _, dup := ns.bindings[key]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateBinding, key)
	}
	ns.bindings[key] = value
	return nil
}

// Get returns the value bound to key and whether the binding exists.
func (ns *Namespace) Get(key string) (any, bool) {
	v, ok := ns.bindings[key]
	return v, ok
}

// Keys returns all bound keys in sorted order.
func (ns *Namespace) Keys() []string {
	keys := make([]string, 0, len(ns.bindings))
	for k := range ns.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of bindings.
func (ns *Namespace) Len() int {
	return len(ns.bindings)
}

// seal marks the namespace read-only. Called by the registry after the
// bootstrap returns successfully.
func (ns *Namespace) seal() {
	ns.sealed = true
}
