package presenter

import "testing"

type fakeBackend struct {
	begins, ends, presents int
}

func (f *fakeBackend) BeginFrame() error { f.begins++; return nil }
func (f *fakeBackend) EndFrame()         { f.ends++ }
func (f *fakeBackend) Present()          { f.presents++ }

func TestFullCycleReturnsToIdle(t *testing.T) {
	b := &fakeBackend{}
	p := New(b, 2)

	if err := p.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := p.RecordFrame(); err != nil {
		t.Fatalf("RecordFrame: %v", err)
	}
	if err := p.SubmitFrame(); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if p.State() != Idle {
		t.Fatalf("expected Idle after full cycle, got %s", p.State())
	}
	if b.begins != 1 || b.ends != 1 || b.presents != 1 {
		t.Fatalf("expected one call each, got begins=%d ends=%d presents=%d", b.begins, b.ends, b.presents)
	}
}

func TestSubmitWithoutRecordIsRejected(t *testing.T) {
	p := New(&fakeBackend{}, 1)
	if err := p.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := p.SubmitFrame(); err == nil {
		t.Fatal("expected error submitting without recording")
	}
}

func TestFrameSlotAdvancesAcrossFrames(t *testing.T) {
	b := &fakeBackend{}
	p := New(b, 2)

	if p.FrameSlot() != 0 {
		t.Fatalf("expected initial slot 0, got %d", p.FrameSlot())
	}
	p.BeginFrame()
	p.RecordFrame()
	p.SubmitFrame()
	p.Present()
	if p.FrameSlot() != 1 {
		t.Fatalf("expected slot 1 after one frame, got %d", p.FrameSlot())
	}
	p.BeginFrame()
	p.RecordFrame()
	p.SubmitFrame()
	p.Present()
	if p.FrameSlot() != 0 {
		t.Fatalf("expected slot to wrap to 0, got %d", p.FrameSlot())
	}
}

func TestDiscardFrameReturnsToIdleWithoutSubmitting(t *testing.T) {
	b := &fakeBackend{}
	p := New(b, 1)
	p.BeginFrame()
	if err := p.DiscardFrame(); err != nil {
		t.Fatalf("DiscardFrame: %v", err)
	}
	if p.State() != Idle {
		t.Fatalf("expected Idle after discard, got %s", p.State())
	}
	if b.ends != 0 || b.presents != 0 {
		t.Fatalf("discard must not call EndFrame/Present, got ends=%d presents=%d", b.ends, b.presents)
	}
}
