// Package toolchain locates a usable Go compiler: a lazily extracted
// embedded toolchain archive when one was baked into the binary, with a
// fallback to the system `go` found on PATH.
package toolchain

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	_ "embed"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"lob/internal/loberr"
)

// The archive is produced at release-build time; in a plain source build it
// is an empty placeholder, which signals "no embedded toolchain" rather
// than a corrupt archive.
//
//go:embed toolchain.tar.gz
var embeddedArchive []byte

// Handle is a resolved compiler: the executable plus an optional GOROOT
// override. GOROOT is empty for the system toolchain.
type Handle struct {
	GoBin  string
	GOROOT string
}

// Embedded manages the extracted embedded toolchain under the cache root.
type Embedded struct {
	dir string
}

// EnsureExtracted returns the embedded toolchain, extracting the archive on
// first use. An extraction directory that exists but lacks the compiler
// binary is treated as a broken interrupted extraction: it is removed and
// extracted again instead of being trusted forever.
func EnsureExtracted(cacheRoot string) (*Embedded, error) {
	e := &Embedded{dir: filepath.Join(cacheRoot, "toolchain")}
	if e.Valid() {
		return e, nil
	}
	if _, err := os.Stat(e.dir); err == nil {
		if err := os.RemoveAll(e.dir); err != nil {
			return nil, loberr.Toolchainf("removing stale toolchain directory: %v", err)
		}
	}
	if err := extractArchive(embeddedArchive, e.dir); err != nil {
		return nil, err
	}
	return e, nil
}

// GoBin returns the compiler path inside the extraction directory.
func (e *Embedded) GoBin() string {
	return filepath.Join(e.dir, "bin", "go")
}

// GOROOT returns the extraction directory, used as the GOROOT override.
func (e *Embedded) GOROOT() string {
	return e.dir
}

// Valid reports whether the extraction directory exists and actually
// contains the compiler binary.
func (e *Embedded) Valid() bool {
	_, err := os.Stat(e.GoBin())
	return err == nil
}

// System probes PATH for a Go compiler and verifies it answers a version
// query. The returned handle carries no GOROOT override.
func System() (Handle, error) {
	goBin, err := exec.LookPath("go")
	if err != nil {
		return Handle{}, loberr.Toolchainf("go not found on PATH; install Go from https://go.dev/dl/")
	}
	out, err := exec.Command(goBin, "version").Output()
	if err != nil {
		return Handle{}, loberr.Toolchainf("go compiler not working properly: %v", err)
	}
	if !strings.HasPrefix(string(out), "go version") {
		return Handle{}, loberr.Toolchainf("unexpected go version output: %q", strings.TrimSpace(string(out)))
	}
	return Handle{GoBin: goBin}, nil
}

// Resolve tries the embedded toolchain first and falls back to the system
// compiler. Both failing is a Toolchain error.
func Resolve(cacheRoot string, log *zap.SugaredLogger) (Handle, error) {
	embedded, err := EnsureExtracted(cacheRoot)
	if err == nil && embedded.Valid() {
		log.Infow("using embedded toolchain", "dir", embedded.GOROOT())
		return Handle{GoBin: embedded.GoBin(), GOROOT: embedded.GOROOT()}, nil
	}
	if err != nil {
		log.Infow("embedded toolchain unavailable, falling back to system go", "reason", err)
	} else {
		log.Infow("embedded toolchain invalid, falling back to system go")
	}
	return System()
}

// extractArchive unpacks a gzipped tar into dest and marks bin/go
// executable. An empty archive is the distinct no-embedded-toolchain
// failure.
func extractArchive(archive []byte, dest string) error {
	if len(archive) == 0 {
		return loberr.Toolchainf("%s", "no embedded toolchain available; this binary was built without one")
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return loberr.Toolchainf("creating toolchain directory: %v", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return loberr.Toolchainf("decompressing toolchain archive: %v", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loberr.Toolchainf("reading toolchain archive: %v", err)
		}
		if err := writeEntry(dest, hdr, tr); err != nil {
			return loberr.Toolchainf("extracting %q: %v", hdr.Name, err)
		}
	}

	goBin := filepath.Join(dest, "bin", "go")
	if _, err := os.Stat(goBin); err == nil {
		if err := os.Chmod(goBin, 0o755); err != nil {
			return loberr.Toolchainf("marking compiler executable: %v", err)
		}
	}
	return nil
}

func writeEntry(dest string, hdr *tar.Header, r io.Reader) error {
	// Reject entries that would escape the extraction directory.
	target := filepath.Join(dest, filepath.Clean(hdr.Name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) && target != filepath.Clean(dest) {
		return pkgerrors.Errorf("archive entry escapes destination: %q", hdr.Name)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, 0o755)
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.Symlink(hdr.Linkname, target)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		// Skip device nodes and other exotic entries.
		return nil
	}
}
