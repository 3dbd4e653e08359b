package config

import "runtime"

// DefaultDiskPath returns the filesystem root recorded by default: the system
// drive on Windows, "/" elsewhere.
func DefaultDiskPath() string {
	return diskPathFor(runtime.GOOS)
}

func diskPathFor(goos string) string {
	if goos == "windows" {
		return `C:\`
	}
	return "/"
}
