package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ReportArchive keeps copies of generated reports on disk so that a
// download can be replayed without re-aggregating the statistics.
type ReportArchive struct {
	baseDir string
}

// NewReportArchive ensures the archive directory exists and returns a handle.
func NewReportArchive(baseDir string) (*ReportArchive, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &ReportArchive{baseDir: baseDir}, nil
}

// Save writes a rendered report under the archive directory.
func (a *ReportArchive) Save(filename string, data []byte) (string, error) {
	path := a.resolve(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archived report: %w", err)
	}
	return path, nil
}

// Open returns a read-only handle for an archived report.
func (a *ReportArchive) Open(filename string) (*os.File, error) {
	file, err := os.Open(a.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("open archived report: %w", err)
	}
	return file, nil
}

// CleanupOlderThan removes archived reports older than ttl and returns the
// names of the files it deleted.
func (a *ReportArchive) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var deleted []string

	err := filepath.WalkDir(a.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("delete archived report: %w", err)
		}
		deleted = append(deleted, d.Name())
		return nil
	})
	if err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (a *ReportArchive) resolve(filename string) string {
	return filepath.Join(a.baseDir, filepath.Base(filename))
}
