//go:build !linux && !freebsd && !darwin && !windows

package durable

import "os"

// Sync falls back to os.File.Sync on platforms without a specialized call.
func Sync(f *os.File) error {
	return f.Sync()
}
