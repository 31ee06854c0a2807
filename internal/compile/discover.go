package compile

import (
	"os"
	"path/filepath"
	"strings"
)

// libraryPackages are the two support packages a generated program links
// against. A module root satisfies discovery only when both are present.
var libraryPackages = [2]string{"prelude", "seq"}

// envMarker names the environment variable that points discovery at a lob
// checkout, for builds and tests that run outside one.
const envMarker = "LOB_MODULE_DIR"

// RootProvider yields candidate module roots, in probe order. Providers are
// environment-dependent by nature; keeping them as plain values makes the
// policy testable with a fake list.
type RootProvider func() []string

// DefaultProviders is the production probe order:
//  1. the LOB_MODULE_DIR marker and every ancestor above it,
//  2. the running executable's directory (plus its parent when the
//     executable is a per-test binary),
//  3. the current working directory,
//  4. every ancestor above the working directory.
func DefaultProviders() []RootProvider {
	return []RootProvider{
		envMarkerProvider,
		executableProvider,
		cwdProvider,
		cwdAncestorsProvider,
	}
}

// DiscoverModuleRoot returns the first candidate root satisfying both
// library packages. ok is false when no provider yields a usable root; the
// caller then compiles without a module override and lets the compiler
// report the unresolved import.
func DiscoverModuleRoot(providers []RootProvider) (string, bool) {
	for _, provider := range providers {
		for _, root := range provider() {
			if rootSatisfied(root) {
				return root, true
			}
		}
	}
	return "", false
}

// rootSatisfied checks a candidate two ways: the fixed-name package
// directories directly under the root, then — if absent — their vendored
// copies under vendor/lob/, covering trees populated by a vendor-mode
// build rather than a direct checkout.
func rootSatisfied(root string) bool {
	if root == "" {
		return false
	}
	if !isLobModule(filepath.Join(root, "go.mod")) {
		return false
	}
	if hasLibraryDirs(root) {
		return true
	}
	return hasLibraryDirs(filepath.Join(root, "vendor", "lob"))
}

func hasLibraryDirs(base string) bool {
	for _, pkg := range libraryPackages {
		dir := filepath.Join(base, pkg)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return false
		}
		if !containsGoSource(dir) {
			return false
		}
	}
	return true
}

func containsGoSource(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".go") {
			return true
		}
	}
	return false
}

func isLobModule(gomod string) bool {
	data, err := os.ReadFile(gomod)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "module lob" {
			return true
		}
	}
	return false
}

func envMarkerProvider() []string {
	marker := os.Getenv(envMarker)
	if marker == "" {
		return nil
	}
	return ancestorsOf(marker)
}

func executableProvider() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	dir := filepath.Dir(exe)
	roots := []string{dir}
	// Test binaries run out of a scratch build directory; the directory
	// above it occasionally holds the checkout when tests are invoked with
	// an explicit -o.
	if strings.HasSuffix(exe, ".test") {
		roots = append(roots, filepath.Dir(dir))
	}
	return roots
}

func cwdProvider() []string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	return []string{cwd}
}

func cwdAncestorsProvider() []string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	roots := ancestorsOf(cwd)
	if len(roots) > 0 {
		// cwdProvider already probed the directory itself.
		roots = roots[1:]
	}
	return roots
}

// ancestorsOf returns dir and every parent up to the filesystem root.
func ancestorsOf(dir string) []string {
	dir = filepath.Clean(dir)
	var out []string
	for {
		out = append(out, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			return out
		}
		dir = parent
	}
}
