// Package atomicfile installs new file content without ever leaving the
// target half-written, and escalates through a pluggable privileged writer
// when the direct write is denied.
package atomicfile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// defaultMode is used when the target file does not exist yet.
const defaultMode fs.FileMode = 0o644

// Writer replaces file content via write-to-temp-then-rename, so readers of
// the target path observe either the old or the new content, never a partial
// write. The temp file lives in the target's directory: the final rename
// stays on one filesystem and is therefore atomic.
type Writer struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewWriter creates a Writer on the given filesystem.
func NewWriter(fs afero.Fs, logger *zap.Logger) *Writer {
	return &Writer{fs: fs, logger: logger}
}

// Write replaces the content of path. The ownership and mode bits of an
// existing target carry over to the replacement; setting the owner is
// best-effort since it needs privilege the process may not have. A missing
// target is created with mode 0644.
//
// Permission failures satisfy errors.Is(err, fs.ErrPermission) so callers
// can decide to fall back to a privileged writer. On any failure before the
// final rename the temp file is removed and the target is left untouched.
func (w *Writer) Write(path string, content []byte) (err error) {
	info, statErr := w.fs.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return fmt.Errorf("failed to stat %s: %w", path, statErr)
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+"_*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err == nil {
			return
		}
		tmp.Close()
		if removeErr := w.fs.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			w.logger.Warn("failed to remove temp file",
				zap.String("path", tmpPath),
				zap.Error(removeErr),
			)
		}
	}()

	mode := defaultMode
	if statErr == nil {
		mode = info.Mode().Perm()
		if uid, gid, ok := fileOwner(info); ok {
			if chownErr := w.fs.Chown(tmpPath, uid, gid); chownErr != nil && !os.IsPermission(chownErr) {
				return fmt.Errorf("failed to set owner on %s: %w", tmpPath, chownErr)
			}
		}
	}
	if err = w.fs.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", tmpPath, err)
	}

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err = w.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmpPath, path, err)
	}

	w.logger.Debug("wrote file atomically",
		zap.String("path", path),
		zap.Int("bytes", len(content)),
	)
	return nil
}
