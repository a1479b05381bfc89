package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportArchiveSaveAndOpen(t *testing.T) {
	archive, err := NewReportArchive(t.TempDir())
	require.NoError(t, err)

	path, err := archive.Save("stats-123.csv", []byte("SNO,QUESTION\n"))
	require.NoError(t, err)
	assert.FileExists(t, path)

	file, err := archive.Open("stats-123.csv")
	require.NoError(t, err)
	defer file.Close()

	content := make([]byte, 12)
	_, err = file.Read(content)
	require.NoError(t, err)
	assert.Equal(t, "SNO,QUESTION", string(content))
}

func TestReportArchiveSaveStripsPath(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewReportArchive(dir)
	require.NoError(t, err)

	path, err := archive.Save("../escape.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.pdf"), path)
}

func TestReportArchiveCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewReportArchive(dir)
	require.NoError(t, err)

	oldPath, err := archive.Save("stats-old.pdf", []byte("old"))
	require.NoError(t, err)
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	freshPath, err := archive.Save("stats-new.pdf", []byte("new"))
	require.NoError(t, err)

	deleted, err := archive.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"stats-old.pdf"}, deleted)
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, freshPath)
}
