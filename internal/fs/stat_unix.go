//go:build unix

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime extracts the inode change time from Unix stat data. Birth
// time is not available on most Unix filesystems, so ctime is the
// closest stable stand-in for when the file appeared at this path.
func creationTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
