//go:build !linux && !darwin

package storage

import "io/fs"

// fileTimes falls back to the portable modification time
func fileTimes(_ string, info fs.FileInfo) Times {
	return Times{Access: info.ModTime(), Modify: info.ModTime()}
}
