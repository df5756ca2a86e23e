package smoother

import (
	"math"
	"testing"

	"github.com/azumag/obs-stabilizer-sub000/transform"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMeanEmptyIsIdentity(t *testing.T) {
	h := NewHistory(4)
	got := h.Mean()
	want := transform.Identity()
	if got != want {
		t.Fatalf("Mean() on empty history = %+v, want identity %+v", got, want)
	}
}

func TestMeanAveragesTranslation(t *testing.T) {
	h := NewHistory(4)
	h.Push(transform.Transform{A: 1, D: 1, TX: 2, TY: 0})
	h.Push(transform.Transform{A: 1, D: 1, TX: 4, TY: 0})
	mean := h.Mean()
	if !almostEqual(mean.TX, 3) {
		t.Fatalf("mean.TX = %v, want 3", mean.TX)
	}
}

func TestPushEvictsOldestWhenFull(t *testing.T) {
	h := NewHistory(2)
	h.Push(transform.Transform{A: 1, D: 1, TX: 1})
	h.Push(transform.Transform{A: 1, D: 1, TX: 2})
	h.Push(transform.Transform{A: 1, D: 1, TX: 3}) // evicts TX=1
	mean := h.Mean()
	if !almostEqual(mean.TX, 2.5) {
		t.Fatalf("mean.TX = %v, want 2.5", mean.TX)
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
}

func TestResizeGrowPreservesEntries(t *testing.T) {
	h := NewHistory(2)
	h.Push(transform.Transform{A: 1, D: 1, TX: 1})
	h.Push(transform.Transform{A: 1, D: 1, TX: 2})
	h.Resize(4)
	if h.Len() != 2 || h.Cap() != 4 {
		t.Fatalf("after grow: Len()=%d Cap()=%d, want 2,4", h.Len(), h.Cap())
	}
	mean := h.Mean()
	if !almostEqual(mean.TX, 1.5) {
		t.Fatalf("mean.TX = %v, want 1.5", mean.TX)
	}
}

func TestResizeShrinkKeepsMostRecent(t *testing.T) {
	h := NewHistory(4)
	h.Push(transform.Transform{A: 1, D: 1, TX: 1})
	h.Push(transform.Transform{A: 1, D: 1, TX: 2})
	h.Push(transform.Transform{A: 1, D: 1, TX: 3})
	h.Resize(2) // should keep TX={2,3}
	if h.Len() != 2 || h.Cap() != 2 {
		t.Fatalf("after shrink: Len()=%d Cap()=%d, want 2,2", h.Len(), h.Cap())
	}
	mean := h.Mean()
	if !almostEqual(mean.TX, 2.5) {
		t.Fatalf("mean.TX = %v, want 2.5", mean.TX)
	}
}

func TestResetClearsHistory(t *testing.T) {
	h := NewHistory(4)
	h.Push(transform.Transform{A: 1, D: 1, TX: 9})
	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", h.Len())
	}
	if h.Mean() != transform.Identity() {
		t.Fatalf("Mean() after Reset = %+v, want identity", h.Mean())
	}
}
