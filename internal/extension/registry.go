package extension

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrSealed is returned by Namespace.Set after the namespace has been
// sealed by a successful load.
var ErrSealed = errors.New("namespace sealed")

// ErrDuplicateBinding is returned by Namespace.Set when the key is
// already bound.
var ErrDuplicateBinding = errors.New("duplicate binding")

// ErrUnknownModule is returned by Load for a name that was never registered.
var ErrUnknownModule = errors.New("unknown module")

// BootstrapFunc populates a freshly created namespace for one module.
// It runs exactly once per process for a given module name. Returning an
// error aborts the load; the namespace is discarded and never becomes
// visible.
type BootstrapFunc func(ns *Namespace) error

// Registry loads named modules at most once per process and retains
// their sealed namespaces for introspection.
type Registry struct {
	mu       sync.Mutex
	boots    map[string]BootstrapFunc
	loaded   map[string]*Namespace
	failures map[string]error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		boots:    make(map[string]BootstrapFunc),
		loaded:   make(map[string]*Namespace),
		failures: make(map[string]error),
	}
}

// Register records a bootstrap function under name. Like
// database/sql.Register it panics on a nil func or a duplicate name:
// both are programmer errors that must surface at startup, not at load
// time.
func (r *Registry) Register(name string, boot BootstrapFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if boot == nil {
		panic("extension: Register called with nil bootstrap for " + name)
	}
	if _, dup := r.boots[name]; dup {
		panic("extension: Register called twice for " + name)
	}
	r.boots[name] = boot
}

// Load runs the module's bootstrap on first call and returns its sealed
// namespace. Subsequent calls return the same namespace without re-running
// the bootstrap. If the bootstrap fails, no namespace becomes visible and
// every later Load of that name returns the original error.
func (r *Registry) Load(name string) (*Namespace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ns, ok := r.loaded[name]; ok {
		return ns, nil
	}
	if err, ok := r.failures[name]; ok {
		return nil, err
	}

	boot, ok := r.boots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}

	ns := NewNamespace()
	if err := boot(ns); err != nil {
		err = fmt.Errorf("loading module %q: %w", name, err)
		r.failures[name] = err
		return nil, err
	}
	ns.seal()
	r.loaded[name] = ns
	return ns, nil
}

// Loaded returns the names of all successfully loaded modules, sorted.
func (r *Registry) Loaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loaded))
	for name := range r.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registered returns the names of all registered modules, sorted.
func (r *Registry) Registered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.boots))
	for name := range r.boots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
