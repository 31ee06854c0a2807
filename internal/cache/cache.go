// Package cache implements the content-addressed store for generated
// sources and compiled binaries. Entries are keyed by the SHA-256 of the
// generated source bytes; identical sources always resolve to the same
// entry, so a given expression is compiled at most once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"lob/internal/loberr"
)

const (
	sourcesDir  = "sources"
	binariesDir = "binaries"
)

// Cache manages the two-subdirectory store under a single root.
//
// The root is shared between concurrent lob processes without locking.
// All writes go through a temp-file-plus-rename so a racing reader either
// sees no entry or a complete one, never a partial file.
type Cache struct {
	root string
}

// New creates a cache rooted at the given directory, creating the
// sources/ and binaries/ subdirectories if needed.
func New(root string) (*Cache, error) {
	for _, sub := range []string{root, filepath.Join(root, sourcesDir), filepath.Join(root, binariesDir)} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, loberr.IO(err)
		}
	}
	return &Cache{root: root}, nil
}

// Default creates the cache under the platform cache location,
// namespaced as "lob".
func Default() (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, loberr.Cachef("no cache directory found: %v", err)
	}
	return New(filepath.Join(base, "lob"))
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.root
}

// Hash computes the cache key for a generated source: lowercase hex
// SHA-256 of its bytes.
func (c *Cache) Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// SourcePath returns the path a stored source would occupy. Existence is
// not implied.
func (c *Cache) SourcePath(key string) string {
	return filepath.Join(c.root, sourcesDir, key+".go")
}

// BinaryPath returns the path a cached binary would occupy. Existence is
// not implied.
func (c *Cache) BinaryPath(key string) string {
	return filepath.Join(c.root, binariesDir, key)
}

// LookupBinary reports whether a binary for the key exists, returning its
// path on a hit. The contents are not read.
func (c *Cache) LookupBinary(key string) (string, bool) {
	path := c.BinaryPath(key)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// StoreSource writes the generated source under sources/. The write is
// atomic: concurrent invocations storing the same key write byte-identical
// content, so whichever rename lands last is equivalent.
func (c *Cache) StoreSource(key, source string) (string, error) {
	dest := c.SourcePath(key)
	if err := atomicWrite(dest, []byte(source)); err != nil {
		return "", loberr.IO(err)
	}
	return dest, nil
}

// InstallBinary moves a freshly linked binary into binaries/<key>.
// The source path must be on the same filesystem as the cache root so the
// rename is atomic; compile scratch directories live under the root for
// exactly this reason.
func (c *Cache) InstallBinary(key, from string) (string, error) {
	dest := c.BinaryPath(key)
	if err := os.Rename(from, dest); err != nil {
		return "", loberr.IO(err)
	}
	return dest, nil
}

// Clear destroys and recreates both subdirectories. Safe to call when they
// are already absent.
func (c *Cache) Clear() error {
	for _, sub := range []string{sourcesDir, binariesDir} {
		dir := filepath.Join(c.root, sub)
		if err := os.RemoveAll(dir); err != nil {
			return loberr.IO(err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return loberr.IO(err)
		}
	}
	return nil
}

// Stats summarizes the binaries subdirectory.
type Stats struct {
	Count      int
	TotalBytes uint64
}

// HumanSize renders TotalBytes in a human-scaled unit.
func (s Stats) HumanSize() string {
	return humanize.IBytes(s.TotalBytes)
}

// Stats counts cached binaries and their total size. Sources are excluded;
// they exist for debugging, not reuse accounting.
func (c *Cache) Stats() (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(filepath.Join(c.root, binariesDir))
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return stats, loberr.IO(err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return stats, loberr.IO(err)
		}
		stats.Count++
		stats.TotalBytes += uint64(info.Size())
	}
	return stats, nil
}

// atomicWrite writes data to a temp file in the destination directory and
// renames it into place.
func atomicWrite(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %q into place: %w", dest, err)
	}
	return nil
}
