//go:build !unix

package atomicfile

import "io/fs"

// fileOwner reports no ownership information on platforms without Unix
// uid/gid semantics.
func fileOwner(fs.FileInfo) (uid, gid int, ok bool) {
	return 0, 0, false
}
