// Package durable fsyncs newly written chunk and rendered-view files.
//
// Spec §7 classifies an I/O error on a chunk/rendered write as fatal: the
// fuzzer's persistence guarantees are broken if a "stored" chunk later
// turns out not to be on disk after a crash. Sync is platform-specific,
// so the actual call is split across build-tagged files the way the
// teacher splits its dirty-page flush between flush_unix.go,
// flush_darwin.go, and flush_windows.go.
package durable
