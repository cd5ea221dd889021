package viewport

import (
	"testing"

	"github.com/oxy2d/engine/engine/camera"
)

func TestEffectiveTransformCentersProjection(t *testing.T) {
	cam := camera.NewCamera()
	v := New(Rect{X: 0, Y: 0, Width: 800, Height: 600}, cam, 0)

	tr := v.EffectiveTransform()
	if tr.X != 400 || tr.Y != 300 {
		t.Fatalf("expected projection centered at (400,300), got (%v,%v)", tr.X, tr.Y)
	}
}

func TestEffectiveTransformSkipsCameraWhenNil(t *testing.T) {
	v := New(Rect{X: 10, Y: 20, Width: 100, Height: 200}, nil, 0)
	tr := v.EffectiveTransform()
	if tr.X != 60 || tr.Y != 120 {
		t.Fatalf("expected projection center (60,120), got (%v,%v)", tr.X, tr.Y)
	}
}

func TestSortByZOrderBreaksTiesByCreationOrder(t *testing.T) {
	a := New(Rect{}, nil, 5)
	b := New(Rect{}, nil, 5)
	c := New(Rect{}, nil, 1)

	sorted := SortByZOrder([]*Viewport{a, b, c})
	if sorted[0] != c {
		t.Fatalf("expected lowest z_order first")
	}
	if sorted[1] != a || sorted[2] != b {
		t.Fatalf("expected tie broken by creation order: a before b")
	}
}

func TestSetZOrderFiresCallbackOnChange(t *testing.T) {
	v := New(Rect{}, nil, 0)
	var oldSeen, newSeen int
	calls := 0
	v.OnZOrderChanged(func(old, n int) {
		calls++
		oldSeen, newSeen = old, n
	})

	v.SetZOrder(0) // no change, no callback
	if calls != 0 {
		t.Fatalf("expected no callback on no-op SetZOrder, got %d calls", calls)
	}

	v.SetZOrder(3)
	if calls != 1 || oldSeen != 0 || newSeen != 3 {
		t.Fatalf("expected one callback (0 -> 3), got calls=%d old=%d new=%d", calls, oldSeen, newSeen)
	}
}

func TestSceneIsNilByDefault(t *testing.T) {
	v := New(Rect{}, nil, 0)
	if v.Scene() != nil {
		t.Fatalf("expected nil scene by default")
	}
}
