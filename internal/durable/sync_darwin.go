//go:build darwin

package durable

import (
	"os"

	"golang.org/x/sys/unix"
)

// Sync flushes f's data to stable storage. macOS has no fdatasync; fsync
// is the closest equivalent (F_FULLFSYNC is deliberately not used here —
// it costs an order of magnitude more and chunk files are append-only
// content-addressed blobs, not a journal that must survive power loss
// mid-write).
func Sync(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
