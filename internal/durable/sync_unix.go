//go:build linux || freebsd

package durable

import (
	"os"

	"golang.org/x/sys/unix"
)

// Sync flushes f's data to stable storage with fdatasync, together with
// only the metadata needed to read that data back (such as its size).
func Sync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
