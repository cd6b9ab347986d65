//go:build windows

package durable

import (
	"os"

	"golang.org/x/sys/windows"
)

// Sync flushes f's data and metadata to stable storage.
func Sync(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
