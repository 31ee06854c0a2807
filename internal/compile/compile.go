// Package compile turns a generated source into a cached binary by driving
// the resolved Go toolchain as a subprocess. The generated program imports
// lob/prelude, so each compile runs inside a scratch module whose go.mod
// redirects the lob import to a discovered on-disk checkout.
package compile

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"lob/internal/cache"
	"lob/internal/diagnose"
	"lob/internal/loberr"
	"lob/internal/toolchain"
)

// Result is the outcome of a compile-with-cache request.
type Result struct {
	BinaryPath string
	CacheHit   bool
}

// Compiler invokes the toolchain against generated sources.
type Compiler struct {
	Toolchain toolchain.Handle

	// Providers is the module-root probe order. Nil means DefaultProviders.
	Providers []RootProvider

	Log *zap.SugaredLogger
}

// New creates a compiler for the given toolchain handle.
func New(handle toolchain.Handle, log *zap.SugaredLogger) *Compiler {
	return &Compiler{Toolchain: handle, Log: log}
}

// CompileAndCache returns a binary for the source, compiling only on a
// cache miss. The binary lands in the cache only after the compiler exits
// zero, so a cached binary is always a successfully linked one.
func (c *Compiler) CompileAndCache(source string, store *cache.Cache, expr string) (Result, error) {
	key := store.Hash(source)

	if path, ok := store.LookupBinary(key); ok {
		return Result{BinaryPath: path, CacheHit: true}, nil
	}

	if _, err := store.StoreSource(key, source); err != nil {
		return Result{}, err
	}

	scratch := filepath.Join(store.Dir(), "build", key)
	defer os.RemoveAll(scratch)

	out := filepath.Join(scratch, "out")
	if err := c.Compile(source, scratch, out, store.Dir(), expr); err != nil {
		return Result{}, err
	}

	path, err := store.InstallBinary(key, out)
	if err != nil {
		return Result{}, err
	}
	return Result{BinaryPath: path, CacheHit: false}, nil
}

// Compile builds the source inside scratchDir, writing the linked binary to
// outputPath. Non-zero compiler exit surfaces as a Compilation error whose
// text has already been through the diagnostic translator; raw stderr never
// reaches the caller.
func (c *Compiler) Compile(source, scratchDir, outputPath, cacheRoot, expr string) error {
	if err := c.writeScratchModule(source, scratchDir); err != nil {
		return err
	}

	cmd := exec.Command(c.Toolchain.GoBin,
		"build",
		"-trimpath",
		"-ldflags=-s -w",
		"-o", outputPath,
		".",
	)
	cmd.Dir = scratchDir
	cmd.Env = c.buildEnv(cacheRoot)

	stderr, err := runCapturingStderr(cmd)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return loberr.Compilation(diagnose.Format(stderr, expr))
		}
		return loberr.Toolchainf("running compiler: %v", err)
	}
	return nil
}

// writeScratchModule lays out the one-file module the compiler builds:
// main.go plus a go.mod requiring lob, replaced with the discovered root
// when one exists.
func (c *Compiler) writeScratchModule(source, scratchDir string) error {
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return loberr.IO(err)
	}
	if err := os.WriteFile(filepath.Join(scratchDir, "main.go"), []byte(source), 0o644); err != nil {
		return loberr.IO(err)
	}

	gomod := "module lobexpr\n\ngo 1.24\n\nrequire lob v0.0.0\n"
	providers := c.Providers
	if providers == nil {
		providers = DefaultProviders()
	}
	if root, ok := DiscoverModuleRoot(providers); ok {
		gomod += fmt.Sprintf("\nreplace lob => %s\n", root)
		if c.Log != nil {
			c.Log.Debugw("resolved lob module root", "root", root)
		}
	} else if c.Log != nil {
		// The build will fail with the compiler's own unresolved-import
		// diagnostic; that is the contract when no root satisfies.
		c.Log.Debugw("no lob module root found; compiling without replace")
	}

	if err := os.WriteFile(filepath.Join(scratchDir, "go.mod"), []byte(gomod), 0o644); err != nil {
		return loberr.IO(err)
	}
	return nil
}

// buildEnv confines the compiler to the cache root: its own build cache
// lives there, module fetches are disabled, and GOROOT is overridden when
// the handle carries an embedded toolchain.
func (c *Compiler) buildEnv(cacheRoot string) []string {
	env := os.Environ()
	env = append(env,
		"GOCACHE="+filepath.Join(cacheRoot, "gocache"),
		"GOFLAGS=-mod=mod",
		"GOPROXY=off",
	)
	if c.Toolchain.GOROOT != "" {
		env = append(env, "GOROOT="+c.Toolchain.GOROOT)
	}
	return env
}

func runCapturingStderr(cmd *exec.Cmd) (string, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// ValidateToolchain double-checks the handle before first use.
func ValidateToolchain(handle toolchain.Handle) error {
	if handle.GoBin == "" {
		return pkgerrors.New("toolchain handle has no compiler path")
	}
	if filepath.IsAbs(handle.GoBin) {
		if _, err := os.Stat(handle.GoBin); err != nil {
			return pkgerrors.Wrapf(err, "compiler missing at %s", handle.GoBin)
		}
	}
	return nil
}
