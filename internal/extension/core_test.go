package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/version"
)

// The core bootstrap's contract: after a successful load the namespace
// holds the version binding (and nothing else), and the value equals the
// build-declared version byte for byte.

func TestBootstrapBindsVersion(t *testing.T) {
	r := NewRegistry()
	r.Register(ModuleName, Bootstrap)

	ns, err := r.Load(ModuleName)
	require.NoError(t, err)

	got, ok := ns.Get(VersionKey)
	require.True(t, ok, "version binding must be present")
	assert.Equal(t, version.Version, got)
}

func TestBootstrapExactVersionText(t *testing.T) {
	orig := version.Version
	t.Cleanup(func() { version.Version = orig })
	version.Version = "0.1.0"

	r := NewRegistry()
	r.Register(ModuleName, Bootstrap)

	ns, err := r.Load(ModuleName)
	require.NoError(t, err)

	got, ok := ns.Get(VersionKey)
	require.True(t, ok)
	assert.Equal(t, "0.1.0", got, "no prefix, suffix, or whitespace")
}

func TestBootstrapSingleBinding(t *testing.T) {
	r := NewRegistry()
	r.Register(ModuleName, Bootstrap)

	ns, err := r.Load(ModuleName)
	require.NoError(t, err)

	assert.Equal(t, 1, ns.Len())
	assert.Equal(t, []string{VersionKey}, ns.Keys())
}

func TestBootstrapDeterministicAcrossRegistries(t *testing.T) {
	// Two fresh registries stand in for two fresh processes of the same
	// build: the version value must be identical.
	load := func() any {
		r := NewRegistry()
		r.Register(ModuleName, Bootstrap)
		ns, err := r.Load(ModuleName)
		require.NoError(t, err)
		v, ok := ns.Get(VersionKey)
		require.True(t, ok)
		return v
	}

	assert.Equal(t, load(), load())
}

func TestDefaultRegistryHasCoreModule(t *testing.T) {
	assert.Contains(t, Default.Registered(), ModuleName)

	ns, err := Default.Load(ModuleName)
	require.NoError(t, err)
	v, ok := ns.Get(VersionKey)
	require.True(t, ok)
	assert.Equal(t, version.Version, v)
}
