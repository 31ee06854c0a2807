package compile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lob/internal/cache"
	"lob/internal/toolchain"
)

func TestWriteScratchModule_WithDiscoveredRoot(t *testing.T) {
	checkout := fakeCheckout(t)
	c := &Compiler{
		Toolchain: toolchain.Handle{GoBin: "go"},
		Providers: []RootProvider{staticProvider(checkout)},
	}

	scratch := filepath.Join(t.TempDir(), "build", "key")
	source := "package main\n\nfunc main() {}\n"
	require.NoError(t, c.writeScratchModule(source, scratch))

	main, err := os.ReadFile(filepath.Join(scratch, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, source, string(main))

	gomod, err := os.ReadFile(filepath.Join(scratch, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(gomod), "module lobexpr\n")
	assert.Contains(t, string(gomod), "require lob v0.0.0\n")
	assert.Contains(t, string(gomod), "replace lob => "+checkout+"\n")
}

func TestWriteScratchModule_WithoutRootOmitsReplace(t *testing.T) {
	c := &Compiler{
		Toolchain: toolchain.Handle{GoBin: "go"},
		Providers: []RootProvider{staticProvider()},
	}

	scratch := filepath.Join(t.TempDir(), "scratch")
	require.NoError(t, c.writeScratchModule("package main\n", scratch))

	gomod, err := os.ReadFile(filepath.Join(scratch, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(gomod), "require lob v0.0.0\n")
	assert.NotContains(t, string(gomod), "replace")
}

func TestBuildEnv_ConfinesCompilerToCacheRoot(t *testing.T) {
	c := &Compiler{Toolchain: toolchain.Handle{GoBin: "/opt/toolchain/bin/go", GOROOT: "/opt/toolchain"}}

	env := c.buildEnv("/home/user/.cache/lob")

	assert.Contains(t, env, "GOCACHE="+filepath.Join("/home/user/.cache/lob", "gocache"))
	assert.Contains(t, env, "GOFLAGS=-mod=mod")
	assert.Contains(t, env, "GOPROXY=off")
	assert.Contains(t, env, "GOROOT=/opt/toolchain")
}

func TestBuildEnv_NoGOROOTOverrideForSystemToolchain(t *testing.T) {
	c := &Compiler{Toolchain: toolchain.Handle{GoBin: "/usr/bin/go"}}

	env := c.buildEnv(t.TempDir())

	// Only the three cache-confinement entries are appended; no GOROOT
	// override for the system toolchain.
	appended := env[len(env)-3:]
	for _, entry := range appended {
		assert.NotContains(t, entry, "GOROOT=")
	}
	assert.Equal(t, "GOPROXY=off", appended[2])
}

func TestCompileAndCache_HitSkipsCompilation(t *testing.T) {
	store, err := cache.New(t.TempDir())
	require.NoError(t, err)

	source := "package main\n\nfunc main() {}\n"
	key := store.Hash(source)
	require.NoError(t, os.WriteFile(store.BinaryPath(key), []byte("cached binary"), 0o755))

	// A bogus toolchain proves the compiler is never invoked on a hit.
	c := New(toolchain.Handle{GoBin: "/nonexistent/go"}, nil)

	result, err := c.CompileAndCache(source, store, "_.Count()")
	require.NoError(t, err)
	assert.True(t, result.CacheHit)
	assert.Equal(t, store.BinaryPath(key), result.BinaryPath)
}

func TestValidateToolchain(t *testing.T) {
	assert.Error(t, ValidateToolchain(toolchain.Handle{}))
	assert.Error(t, ValidateToolchain(toolchain.Handle{GoBin: "/nonexistent/bin/go"}))

	// Bare names defer to PATH lookup at exec time.
	assert.NoError(t, ValidateToolchain(toolchain.Handle{GoBin: "go"}))

	real := filepath.Join(t.TempDir(), "go")
	require.NoError(t, os.WriteFile(real, []byte("fake"), 0o755))
	assert.NoError(t, ValidateToolchain(toolchain.Handle{GoBin: real}))
}
