package dwell

import (
	"image"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-kiosk/pkg/gesture"
)

var screen = image.Pt(1920, 1080)

func at(p image.Point) Input {
	return Input{
		Present: true,
		Pointer: gesture.Pointer{Position: r2.Vec{X: float64(p.X), Y: float64(p.Y)}, Visible: true},
	}
}

func TestLayout(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 3)

	if got := e.CellSize(); got != 456 {
		t.Fatalf("CellSize() = %d, want 456", got)
	}
	regions := e.Regions()
	want := []image.Rectangle{
		image.Rect(1452, 0, 1908, 456),
		image.Rect(1452, 468, 1908, 924),
		image.Rect(1452, 936, 1908, 1392),
	}
	for i, r := range regions {
		if r.Rect != want[i] {
			t.Errorf("region %d = %v, want %v", i, r.Rect, want[i])
		}
		if r.Index != i {
			t.Errorf("region %d index = %d", i, r.Index)
		}
	}
}

func TestProgress_MonotonicAndClamped(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 2)
	centre := center(e.Regions()[0].Rect)

	prev := e.State().Progress
	committed := false
	for i := 0; i < 400 && !committed; i++ {
		idx, ok := e.Update(at(centre))
		s := e.State()
		if s.Progress < prev {
			t.Fatalf("frame %d: progress went down %v -> %v", i, prev, s.Progress)
		}
		if s.Progress > 1 {
			t.Fatalf("frame %d: progress %v above 1", i, s.Progress)
		}
		prev = s.Progress
		if ok {
			committed = true
			if idx != 0 {
				t.Errorf("committed index = %d, want 0", idx)
			}
			if s.Progress != 1 {
				t.Errorf("progress at commit = %v, want 1", s.Progress)
			}
		}
	}
	if !committed {
		t.Fatal("no commit after 400 frames at the centre")
	}
}

func TestProgress_NearAndFarIncrements(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 1)
	r := e.Regions()[0].Rect
	c := center(r)

	e.Update(at(c))
	if got := e.State().Progress; math.Abs(got-0.004) > 1e-12 {
		t.Errorf("near progress = %v, want 0.004", got)
	}

	e.Reset()
	e.Update(at(image.Pt(r.Min.X+1, r.Min.Y+1)))
	if got := e.State().Progress; math.Abs(got-0.002) > 1e-12 {
		t.Errorf("far progress = %v, want 0.002", got)
	}
}

func TestProgress_ResetsOnDifferentRegion(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 2)
	regions := e.Regions()

	for i := 0; i < 20; i++ {
		e.Update(at(center(regions[0].Rect)))
	}
	if e.State().Progress <= 0 {
		t.Fatal("progress should have accrued")
	}

	e.Update(at(regions[1].Rect.Min))
	s := e.State()
	if s.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", s.Selected)
	}
	// Reset to 0 then one far increment this frame.
	if math.Abs(s.Progress-0.002) > 1e-12 {
		t.Errorf("progress = %v, want reset then one increment", s.Progress)
	}
}

func TestProgress_HeldWhenLeavingToNothing(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 1)
	c := center(e.Regions()[0].Rect)
	for i := 0; i < 10; i++ {
		e.Update(at(c))
	}
	before := e.State()

	e.Update(at(image.Pt(10, 10)))
	e.Update(at(image.Pt(20, 20)))
	if got := e.State(); got != before {
		t.Errorf("state = %+v, want held at %+v", got, before)
	}

	// Coming back to the same region keeps accruing.
	e.Update(at(c))
	if got := e.State().Progress; math.Abs(got-(before.Progress+0.004)) > 1e-12 {
		t.Errorf("progress = %v, want %v", got, before.Progress+0.004)
	}
}

func TestProgress_ResetsOnDifferentRegionAcrossGap(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 2)
	regions := e.Regions()
	for i := 0; i < 20; i++ {
		e.Update(at(center(regions[0].Rect)))
	}

	e.Update(at(image.Pt(10, 10)))
	if s := e.State(); s.Selected != 0 || s.Progress <= 0 {
		t.Fatalf("state = %+v, want region 0 held", s)
	}

	e.Update(at(regions[1].Rect.Min))
	s := e.State()
	if s.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", s.Selected)
	}
	if math.Abs(s.Progress-0.002) > 1e-12 {
		t.Errorf("progress = %v, want reset then one increment", s.Progress)
	}
}

func TestProgress_HeldOutsideRegions(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 1)
	e.Update(at(image.Pt(10, 10)))
	e.Update(at(image.Pt(20, 20)))

	if s := e.State(); s.Progress != 0 || s.Selected != -1 {
		t.Errorf("state = %+v, want held at 0", s)
	}

	// After absence the sentinel holds until a region is hit.
	e.Update(Input{Present: false})
	e.Update(at(image.Pt(10, 10)))
	if s := e.State(); s.Progress != Absent {
		t.Errorf("progress = %v, want held at %v", s.Progress, Absent)
	}
}

func TestProgress_RestartsAfterAbsence(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 1)
	c := center(e.Regions()[0].Rect)
	for i := 0; i < 10; i++ {
		e.Update(at(c))
	}

	e.Update(Input{Present: false})
	if s := e.State(); s.Selected != -1 {
		t.Errorf("Selected = %d after absence, want -1", s.Selected)
	}

	// Returning to the same region starts from 0, not from the sentinel.
	e.Update(at(c))
	if got := e.State().Progress; math.Abs(got-0.004) > 1e-12 {
		t.Errorf("progress = %v, want 0.004", got)
	}
}

func TestProgress_HeldWhenHandHidden(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 1)
	c := center(e.Regions()[0].Rect)
	for i := 0; i < 10; i++ {
		e.Update(at(c))
	}
	before := e.State()

	e.Update(Input{Present: true})
	if got := e.State(); got != before {
		t.Errorf("state = %+v, want %+v", got, before)
	}
}

func TestAbsentSubject(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 1)
	e.Update(at(center(e.Regions()[0].Rect)))

	e.Update(Input{Present: false})
	if got := e.State().Progress; got != Absent {
		t.Errorf("progress = %v, want %v", got, Absent)
	}
}

func TestHitTest_LastRegionWins(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 3)
	// Force an overlap of regions 0 and 2.
	e.regions[2].Rect = e.regions[0].Rect

	if got := e.HitTest(center(e.regions[0].Rect)); got != 2 {
		t.Errorf("HitTest() = %d, want 2", got)
	}
	if got := e.HitTest(image.Pt(0, 0)); got != -1 {
		t.Errorf("HitTest() outside = %d, want -1", got)
	}
}

func TestScroll_Clamped(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 3)

	e.ScrollDown()
	if e.Offset() != 0 {
		t.Errorf("Offset() = %d after scrolling past the start", e.Offset())
	}
	for i := 0; i < 5; i++ {
		e.Update(Input{Present: true, Swipe: gesture.SwipeUp})
	}
	if e.Offset() != 2 {
		t.Errorf("Offset() = %d, want 2", e.Offset())
	}
	e.Update(Input{Present: true, Swipe: gesture.SwipeDown})
	if e.Offset() != 1 {
		t.Errorf("Offset() = %d, want 1", e.Offset())
	}
}

func TestRegions_AnimateTowardTarget(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 2)
	e.ScrollUp()

	e.Update(Input{Present: false})
	// 468 -> 0 with friction 0.9: round(468*0.9) = 421.
	if got := e.Regions()[1].Rect.Min.Y; got != 421 {
		t.Errorf("region 1 y = %d, want 421", got)
	}
	for i := 0; i < 200; i++ {
		e.Update(Input{Present: false})
	}
	if got := e.Regions()[1].Rect; got != e.Target(1) {
		t.Errorf("region 1 = %v, want %v", got, e.Target(1))
	}
}

func TestRegionAlpha(t *testing.T) {
	e := NewEngine(DefaultConfig(), screen, 2)
	c := center(e.Regions()[0].Rect)

	if got := e.RegionAlpha(1); got != baseAlpha {
		t.Errorf("alpha with no selection = %v", got)
	}
	for i := 0; i < 100; i++ {
		e.Update(at(c))
	}
	// progress is 0.4: (1 - 0.3/0.9)
	if got := e.RegionAlpha(1); math.Abs(got-(1-0.3/0.9)) > 1e-6 {
		t.Errorf("alpha of other region = %v", got)
	}
	if got := e.RegionAlpha(0); got != baseAlpha {
		t.Errorf("alpha of selected region = %v", got)
	}
}
