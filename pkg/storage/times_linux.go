//go:build linux

package storage

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// fileTimes extracts access, modification and change times from stat(2).
// Birth time comes from statx(2) and stays zero when the kernel or the
// filesystem does not report it.
func fileTimes(path string, info fs.FileInfo) Times {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Times{Access: info.ModTime(), Modify: info.ModTime()}
	}

	times := Times{
		Access: time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec)),
		Modify: info.ModTime(),
		Change: time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec)),
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		times.Birth = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return times
}
