package toolchain

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lob/internal/loberr"
)

// makeArchive builds a gzipped tar in memory from name -> content entries.
func makeArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range entries {
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestExtractArchive_EmptyArchiveIsDistinctFailure(t *testing.T) {
	err := extractArchive(nil, filepath.Join(t.TempDir(), "toolchain"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, loberr.ErrToolchain))
	assert.Contains(t, err.Error(), "no embedded toolchain")
}

func TestExtractArchive_UnpacksAndMarksCompilerExecutable(t *testing.T) {
	archive := makeArchive(t, map[string]string{
		"bin/go":       "#!/bin/sh\necho go version go1.24\n",
		"pkg/tool/doc": "tool docs",
	})
	dest := filepath.Join(t.TempDir(), "toolchain")

	require.NoError(t, extractArchive(archive, dest))

	info, err := os.Stat(filepath.Join(dest, "bin", "go"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(dest, "pkg", "tool", "doc"))
	require.NoError(t, err)
	assert.Equal(t, "tool docs", string(data))
}

func TestExtractArchive_RejectsEscapingEntries(t *testing.T) {
	archive := makeArchive(t, map[string]string{
		"../escape.txt": "outside",
	})
	base := t.TempDir()
	dest := filepath.Join(base, "toolchain")

	err := extractArchive(archive, dest)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(base, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr), "escaping entry must not be written")
}

func TestExtractArchive_CorruptArchiveFails(t *testing.T) {
	err := extractArchive([]byte("definitely not gzip"), filepath.Join(t.TempDir(), "toolchain"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, loberr.ErrToolchain))
}

func TestEnsureExtracted_ReusesValidExtraction(t *testing.T) {
	cacheRoot := t.TempDir()
	goBin := filepath.Join(cacheRoot, "toolchain", "bin", "go")
	require.NoError(t, os.MkdirAll(filepath.Dir(goBin), 0o755))
	require.NoError(t, os.WriteFile(goBin, []byte("fake"), 0o755))

	e, err := EnsureExtracted(cacheRoot)
	require.NoError(t, err)
	assert.True(t, e.Valid())
	assert.Equal(t, goBin, e.GoBin())
	assert.Equal(t, filepath.Join(cacheRoot, "toolchain"), e.GOROOT())
}

func TestEnsureExtracted_ReplacesBrokenExtraction(t *testing.T) {
	saved := embeddedArchive
	defer func() { embeddedArchive = saved }()
	embeddedArchive = makeArchive(t, map[string]string{"bin/go": "fresh compiler"})

	cacheRoot := t.TempDir()
	// A directory without bin/go is an interrupted extraction.
	stale := filepath.Join(cacheRoot, "toolchain")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "leftover"), []byte("junk"), 0o644))

	e, err := EnsureExtracted(cacheRoot)
	require.NoError(t, err)
	assert.True(t, e.Valid())

	_, statErr := os.Stat(filepath.Join(stale, "leftover"))
	assert.True(t, os.IsNotExist(statErr), "stale contents must be removed")

	data, err := os.ReadFile(e.GoBin())
	require.NoError(t, err)
	assert.Equal(t, "fresh compiler", string(data))
}

func TestEnsureExtracted_NoArchiveNoDirectory(t *testing.T) {
	saved := embeddedArchive
	defer func() { embeddedArchive = saved }()
	embeddedArchive = nil

	_, err := EnsureExtracted(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, loberr.ErrToolchain))
}

func TestEmbedded_ValidRequiresCompilerBinary(t *testing.T) {
	e := &Embedded{dir: t.TempDir()}
	assert.False(t, e.Valid(), "directory without bin/go is not valid")

	require.NoError(t, os.MkdirAll(filepath.Join(e.dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(e.GoBin(), []byte("go"), 0o755))
	assert.True(t, e.Valid())
}
