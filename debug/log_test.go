package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := EnableFile(path); err != nil {
		t.Fatalf("enable: %v", err)
	}
	defer Disable()

	if !Enabled() {
		t.Fatal("expected logging enabled")
	}

	Log("engine", "frame %d", 7)
	for i := 0; i < 4; i++ {
		LogEvery(2, "strip", "overrun")
	}
	Disable()
	Log("engine", "after disable")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "engine     frame 7") {
		t.Errorf("expected category and message, got %q", out)
	}
	if n := strings.Count(out, "overrun (every 2"); n != 2 {
		t.Errorf("expected 2 sampled lines, got %d", n)
	}
	if strings.Contains(out, "after disable") {
		t.Error("expected nothing logged after Disable")
	}
}
