package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	run, err := New(dir, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer run.Close()

	if !strings.HasPrefix(filepath.Base(run.Path), "run_") {
		t.Errorf("log file name = %q, want run_ prefix", filepath.Base(run.Path))
	}
	if _, err := os.Stat(run.Path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestEntriesLandInFile(t *testing.T) {
	run, err := New(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}

	run.Component("mapping").Warnf("customer not found: %s", "Acme Inc")
	if err := run.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(run.Path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "customer not found: Acme Inc") {
		t.Errorf("log file missing the message:\n%s", content)
	}
	if !strings.Contains(content, "component=mapping") {
		t.Errorf("log file missing the component field:\n%s", content)
	}
}
