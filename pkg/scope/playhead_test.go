// ABOUTME: Tests for the playhead and playback adapter
// ABOUTME: Tests looping reads, silence for empty images and sink hand-off
package scope

import (
	"errors"
	"testing"

	"github.com/xyscope/xyscope/pkg/sink"
)

func snapshotOf(frames ...frame) Snapshot {
	b := NewBuffer(0)
	if err := b.Grow(len(frames)); err != nil {
		panic(err)
	}
	for _, f := range frames {
		b.Append(f.left, f.right)
	}
	return b.Snapshot()
}

func TestPlayheadLoops(t *testing.T) {
	head := NewPlayhead(snapshotOf(frame{-1, -1}, frame{0, 0.5}, frame{1, 1}))

	out := make([]float32, 8) // 4 frames
	head.Fill(out)

	want := []float32{-1, -1, 0, 0.5, 1, 1, -1, -1}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], out[i])
		}
	}
	if head.Played() != 4 {
		t.Errorf("expected 4 frames played, got %d", head.Played())
	}
	if head.Loops() != 1 {
		t.Errorf("expected 1 loop, got %d", head.Loops())
	}

	// Continues where the last period ended
	head.Fill(out[:2])
	if out[0] != 0 || out[1] != 0.5 {
		t.Errorf("expected second frame, got (%v, %v)", out[0], out[1])
	}
}

func TestPlayheadEmptySnapshot(t *testing.T) {
	head := NewPlayhead(Snapshot{})

	out := []float32{1, 1, 1, 1}
	head.Fill(out)
	for i, s := range out {
		if s != 0 {
			t.Errorf("sample %d: expected silence, got %v", i, s)
		}
	}
	if head.Loops() != 0 {
		t.Errorf("expected no loops, got %d", head.Loops())
	}
}

func TestPlayheadOddLength(t *testing.T) {
	head := NewPlayhead(snapshotOf(frame{0.5, 0.5}))

	out := []float32{9, 9, 9}
	head.Fill(out)
	if out[0] != 0.5 || out[1] != 0.5 || out[2] != 0 {
		t.Errorf("unexpected output %v", out)
	}
	if head.Played() != 1 {
		t.Errorf("expected 1 frame played, got %d", head.Played())
	}
}

func TestPlaybackBeginEnd(t *testing.T) {
	mem := sink.NewMemory()
	p := NewPlayback(mem, 400)

	if err := p.Begin(snapshotOf(frame{0.1, 0.2}), 96000); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !p.Running() || !mem.Running() {
		t.Fatal("expected playback to be running")
	}
	cfg := mem.Config()
	if cfg.SampleRate != 96000 || cfg.Channels != 2 || cfg.FramesPerPeriod != 400 {
		t.Errorf("unexpected sink config %+v", cfg)
	}

	mem.Pump(3)
	if played, loops := p.Position(); played != 3 || loops != 3 {
		t.Errorf("expected 3 frames and 3 loops, got %d and %d", played, loops)
	}

	if err := p.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if p.Running() || mem.IsOpen() {
		t.Error("expected sink to be stopped and closed")
	}
}

func TestPlaybackStartFailureClosesSink(t *testing.T) {
	mem := sink.NewMemory()
	mem.Fail("start", errors.New("device lost"))
	p := NewPlayback(mem, 800)

	err := p.Begin(Snapshot{}, 44100)
	var serr *sink.Error
	if !errors.As(err, &serr) || serr.Op != "start" {
		t.Fatalf("expected start sink error, got %v", err)
	}
	if mem.IsOpen() {
		t.Error("expected sink to be closed after failed start")
	}
	if err := p.End(); err != nil {
		t.Errorf("End after failed Begin should be a no-op, got %v", err)
	}
}

func TestPlaybackEndRetry(t *testing.T) {
	mem := sink.NewMemory()
	p := NewPlayback(mem, 800)
	if err := p.Begin(Snapshot{}, 44100); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	mem.Fail("close", errors.New("busy"))
	if err := p.End(); err == nil {
		t.Fatal("expected close error")
	}
	if p.Running() {
		t.Error("expected stop to have succeeded before close failed")
	}

	if err := p.End(); err != nil {
		t.Fatalf("retried End failed: %v", err)
	}
	if mem.IsOpen() {
		t.Error("expected sink closed after retry")
	}
}
