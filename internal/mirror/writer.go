package mirror

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitemirror/sitemirror/internal/model"
)

// lockFileName marks an output directory with a mirror pass in progress.
const lockFileName = ".sitemirror.lock"

// writePage writes a page record's HTML to its mapped path below the
// output root. The write goes through a temp file in the target directory
// so a crash never leaves a truncated page behind.
func writePage(outputDir string, record model.PageRecord) error {
	target := filepath.Join(outputDir, filepath.FromSlash(record.OutputFilePath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".page-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(record.RenderedHTML); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// acquireLock creates the lock file exclusively. A second concurrent run
// against the same output directory fails here instead of interleaving
// writes with the first.
func acquireLock(outputDir string) (release func(), err error) {
	lockPath := filepath.Join(outputDir, lockFileName)

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("output directory is locked by another run (remove %s if stale)", lockPath)
		}
		return nil, err
	}
	fmt.Fprintf(f, "pid %d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(lockPath) }, nil
}
