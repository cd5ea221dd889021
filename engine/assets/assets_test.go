package assets

import "testing"

func TestNewPathRejectsOverLength(t *testing.T) {
	huge := make([]byte, 2000)
	for i := range huge {
		huge[i] = 'a'
	}
	if _, err := NewPath(string(huge), "name"); err != BadAssetPath {
		t.Fatalf("expected BadAssetPath, got %v", err)
	}
}

func TestLoadMissingAssetReturnsNotFound(t *testing.T) {
	l := NewLoader(t.TempDir())
	path, err := NewPath("sprites", "does-not-exist")
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	if _, err := l.Load(path); err != AssetNotFound {
		t.Fatalf("expected AssetNotFound, got %v", err)
	}
}

func TestHandleReleaseIsIdempotentOnZeroValue(t *testing.T) {
	var h Handle
	l := NewLoader(t.TempDir())
	h.Release(l) // must not panic
}
