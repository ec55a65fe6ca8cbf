package backend

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLibraryAvailableViaLDLibraryPath(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, "libfakeengine.so"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LD_LIBRARY_PATH", d)
	if !LibraryAvailable("libfakeengine.so") {
		t.Fatal("expected library to be found")
	}
	if LibraryAvailable("libabsent.so") {
		t.Fatal("absent library reported available")
	}
}

func TestLibraryAvailableMatchesVersionedName(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, "libfakeengine.so.1.21.0"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LD_LIBRARY_PATH", d)
	if !LibraryAvailable("libfakeengine.so") {
		t.Fatal("versioned library should satisfy unversioned probe")
	}
}

func TestLibraryAvailableEmptyPathEntries(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, "libx.so"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LD_LIBRARY_PATH", ":"+d+":")
	if !LibraryAvailable("libx.so") {
		t.Fatal("expected library to be found despite empty path entries")
	}
}
