package identifier

import (
	"strings"
	"testing"
)

func TestInternCaseFolding(t *testing.T) {
	a, err := Intern("Sprite")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	b, err := Intern("SPRITE")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("expected case-folded identifiers to be equal")
	}
	if Display(a) != "Sprite" {
		t.Fatalf("Display should return first-seen spelling, got %q", Display(a))
	}
}

func TestNoneDistinctFromConstructed(t *testing.T) {
	c, err := Intern("geometry")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if None.Equal(c) {
		t.Fatalf("None must never equal a constructed identifier")
	}
	if !None.IsNone() {
		t.Fatalf("None.IsNone() must be true")
	}
}

func TestInternRejectsOverLength(t *testing.T) {
	_, err := Intern(strings.Repeat("a", MaxLength+1))
	if err != ErrTooLong {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestInternStableAcrossManyCalls(t *testing.T) {
	first, _ := Intern("stable-key")
	for i := 0; i < 1000; i++ {
		id, err := Intern("stable-key")
		if err != nil {
			t.Fatalf("Intern: %v", err)
		}
		if !id.Equal(first) {
			t.Fatalf("identifier drifted across repeated interns")
		}
	}
}
