package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateStagingReplacesLeftovers(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "dist", "julec-ir")

	stale := filepath.Join(root, "dist", "old.cpp")
	if err := os.MkdirAll(filepath.Dir(stale), 0o750); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.WriteFile(stale, []byte("stale"), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := mgr.CreateStaging(); err != nil {
		t.Fatalf("CreateStaging() failed: %v", err)
	}

	if _, err := os.Stat(mgr.StagingPath()); err != nil {
		t.Fatalf("staging directory missing: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale artifact survived CreateStaging: %s", stale)
	}
}

func TestCleanupRemovesBothTrees(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "dist", "julec-ir")

	if err := mgr.CreateStaging(); err != nil {
		t.Fatalf("CreateStaging() failed: %v", err)
	}
	if err := os.MkdirAll(mgr.DestPath(), 0o750); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}

	for _, p := range []string{mgr.StagingPath(), mgr.DestPath()} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("directory still exists after cleanup: %s", p)
		}
	}
}

func TestEmptyRootDefaultsToCWD(t *testing.T) {
	mgr := NewManager("", "dist", "julec-ir")
	if got := mgr.StagingPath(); got != "dist" {
		t.Errorf("expected relative staging path, got %s", got)
	}
}
