/*
NAME
  smoother.go

DESCRIPTION
  smoother.go implements the sliding-window transform smoother (spec.md
  §4.F): a bounded history of recent transforms whose uniform mean gives
  the target trajectory the stabilizer warps the current frame toward.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package smoother maintains the bounded transform history spec.md §4.F
// smooths over, and computes its running mean.
package smoother

import "github.com/azumag/obs-stabilizer-sub000/transform"

// History is a fixed-capacity ring buffer of the most recent Transforms,
// oldest discarded first once full.
type History struct {
	buf   []transform.Transform
	cap   int
	start int // index of the oldest element in buf.
	size  int
}

// NewHistory returns a History with the given capacity (smoothing_radius).
// A capacity below 1 is treated as 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]transform.Transform, capacity), cap: capacity}
}

// Push appends t, evicting the oldest entry if the history is full.
func (h *History) Push(t transform.Transform) {
	idx := (h.start + h.size) % h.cap
	h.buf[idx] = t
	if h.size < h.cap {
		h.size++
	} else {
		h.start = (h.start + 1) % h.cap
	}
}

// Len returns the number of transforms currently held.
func (h *History) Len() int { return h.size }

// Cap returns the history's current capacity.
func (h *History) Cap() int { return h.cap }

// Mean returns the element-wise uniform mean of the held transforms, or
// the identity transform if the history is empty.
func (h *History) Mean() transform.Transform {
	if h.size == 0 {
		return transform.Identity()
	}
	var sum transform.Transform
	for i := 0; i < h.size; i++ {
		t := h.buf[(h.start+i)%h.cap]
		sum.A += t.A
		sum.B += t.B
		sum.TX += t.TX
		sum.C += t.C
		sum.D += t.D
		sum.TY += t.TY
	}
	n := float64(h.size)
	return transform.Transform{
		A: sum.A / n, B: sum.B / n, TX: sum.TX / n,
		C: sum.C / n, D: sum.D / n, TY: sum.TY / n,
	}
}

// Resize changes the history's capacity to newCap (treated as 1 if below
// 1). Growing preserves all held entries. Shrinking keeps the newCap most
// recently pushed entries and discards the rest from the oldest end, per
// spec.md §4.F.
func (h *History) Resize(newCap int) {
	if newCap < 1 {
		newCap = 1
	}
	if newCap == h.cap {
		return
	}

	keep := h.size
	if keep > newCap {
		keep = newCap
	}
	newBuf := make([]transform.Transform, newCap)
	// Copy the keep most recent entries, oldest-first, into newBuf.
	skip := h.size - keep
	for i := 0; i < keep; i++ {
		newBuf[i] = h.buf[(h.start+skip+i)%h.cap]
	}
	h.buf = newBuf
	h.cap = newCap
	h.start = 0
	h.size = keep
}

// Reset discards all held transforms without changing capacity.
func (h *History) Reset() {
	h.start = 0
	h.size = 0
}
