//go:build unix

package atomicfile

import (
	"io/fs"
	"syscall"
)

// fileOwner extracts the owner uid/gid from a FileInfo. Filesystems that do
// not carry ownership data (in-memory test filesystems) report ok=false.
func fileOwner(info fs.FileInfo) (uid, gid int, ok bool) {
	st, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat {
		return 0, 0, false
	}
	return int(st.Uid), int(st.Gid), true
}
