package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	name := GenerateOutputFileName("{prefix}_{timestamp}", map[string]string{"prefix": "laporan_transaksi"}, ".pdf", now)
	assert.Equal(t, "laporan_transaksi_20240115_143022.pdf", name)

	name = GenerateOutputFileName("{prefix}_{date}.xlsx", map[string]string{"prefix": "r", "date": "2024/01/01"}, ".xlsx", now)
	assert.Equal(t, "r_2024-01-01.xlsx", name)

	name = GenerateOutputFileName("{uuid}", nil, ".html", now)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}\.html$`), name)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)
	require.NoError(t, fm.EnsureDirectories())

	path, err := fm.WriteOutput("a.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteOutputFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)

	boom := errors.New("boom")
	_, err := fm.WriteOutput("b.txt", func(w io.Writer) error { return boom })
	require.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteOutputDateSubdirs(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)
	fm.UseDateSubdirs = true
	fm.now = func() time.Time { return time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC) }

	path, err := fm.WriteOutput("c.txt", func(w io.Writer) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024", "02", "03", "c.txt"), path)
}

func TestCleanOldExports(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(dir)

	old := filepath.Join(dir, "old.pdf")
	fresh := filepath.Join(dir, "fresh.pdf")
	require.NoError(t, os.WriteFile(old, nil, 0o644))
	require.NoError(t, os.WriteFile(fresh, nil, 0o644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	removed, err := fm.CleanOldExports(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, FileExists(old))
	assert.True(t, FileExists(fresh))
}
