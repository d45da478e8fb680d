package identutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatchPathMirrorsDirectoryStructure(t *testing.T) {
	got := CatchPath("/repo/features/checkout/cart.feature", "/repo/features", "/repo/tests")
	want := filepath.Join("/repo/tests", "checkout", "cart.h")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveOutputPathFallsBackToSkeleton(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "cart.h")
	if err := os.WriteFile(existing, []byte("// existing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := ResolveOutputPath(existing)
	want := filepath.Join(dir, "cart.skeleton")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	fresh := filepath.Join(dir, "new.h")
	if ResolveOutputPath(fresh) != fresh {
		t.Fatalf("a non-existent path should be returned unchanged")
	}
}
