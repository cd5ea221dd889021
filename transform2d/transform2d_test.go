package transform2d

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestComposeWithIdentityParent(t *testing.T) {
	local := T{X: 5, Y: 7, Rotation: 0.3, ScaleX: 2, ScaleY: 2}
	got := Compose(Identity(), local)
	if !approxEqual(got.X, local.X, 1e-5) || !approxEqual(got.Y, local.Y, 1e-5) {
		t.Fatalf("composing with identity parent should be a no-op, got %+v", got)
	}
}

func TestComposeRotatedParentTranslatesChild(t *testing.T) {
	// Parent rotated 90 degrees at the origin; child offset (10,0) in its
	// own local space should land at world (0,10).
	parent := T{Rotation: float32(math.Pi / 2), ScaleX: 1, ScaleY: 1}
	child := T{X: 10, ScaleX: 1, ScaleY: 1}
	world := Compose(parent, child)
	if !approxEqual(world.X, 0, 1e-4) || !approxEqual(world.Y, 10, 1e-4) {
		t.Fatalf("expected world translation ~= (0,10), got (%v,%v)", world.X, world.Y)
	}
}

func TestComposeAfterParentMoveUpdatesWorld(t *testing.T) {
	parent := T{Rotation: float32(math.Pi / 2), ScaleX: 1, ScaleY: 1}
	child := T{X: 10, ScaleX: 1, ScaleY: 1}
	_ = Compose(parent, child)

	parent.X, parent.Y = 5, 5
	world := Compose(parent, child)
	if !approxEqual(world.X, 5, 1e-4) || !approxEqual(world.Y, 15, 1e-4) {
		t.Fatalf("expected world translation ~= (5,15) after parent move, got (%v,%v)", world.X, world.Y)
	}
}
