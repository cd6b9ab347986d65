package obslog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDisabledDiscardsWithoutTouchingDisk(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Options{Enabled: false, LogDir: filepath.Join(dir, "logs")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("should not be written anywhere")

	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Fatalf("expected log directory not created when disabled, stat err=%v", err)
	}
}

func TestNewEnabledWritesJSONLineWithWorkerID(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Options{Enabled: true, LogDir: dir, WorkerID: "w3"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", "n", 1)

	filename := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty log file")
	}
	if !contains(data, `"worker":"w3"`) {
		t.Fatalf("expected worker field in log line, got %s", data)
	}
}

func TestCleanOldLogsRemovesOnlyStaleMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, logPrefix+"2000-01-01"+logSuffix)
	fresh := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	unrelated := filepath.Join(dir, "other.log")
	for _, p := range []string{stale, fresh, unrelated} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", p, err)
		}
	}

	cleanOldLogs(dir)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh log kept: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected unrelated file kept: %v", err)
	}
}

func contains(data []byte, sub string) bool {
	return len(data) >= len(sub) && indexOf(string(data), sub) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
