//go:build darwin

package storage

import (
	"io/fs"
	"syscall"
	"time"
)

// fileTimes extracts access, modification, change and birth times
func fileTimes(_ string, info fs.FileInfo) Times {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Times{Access: info.ModTime(), Modify: info.ModTime()}
	}

	return Times{
		Access: time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec),
		Modify: info.ModTime(),
		Change: time.Unix(stat.Ctimespec.Sec, stat.Ctimespec.Nsec),
		Birth:  time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec),
	}
}
