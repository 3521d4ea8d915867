package hosts

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// DefaultPath is the hosts file managed when no path is configured.
const DefaultPath = "/etc/hosts"

// File reads and parses a hosts file through an injectable filesystem, so
// tests can run against in-memory or temp-dir filesystems.
type File struct {
	fs   afero.Fs
	path string
}

// NewFile returns a File for the given path on the given filesystem.
func NewFile(fs afero.Fs, path string) *File {
	return &File{fs: fs, path: path}
}

// Path returns the target path.
func (f *File) Path() string {
	return f.path
}

// Load reads the file and parses it into managed entries and the
// surrounding-text snapshot. A missing file is treated as empty: no entries
// exist yet and the snapshot is blank.
func (f *File) Load() ([]Entry, Snapshot, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Snapshot{}, nil
		}
		return nil, Snapshot{}, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	entries, snap := Parse(string(data))
	return entries, snap, nil
}
