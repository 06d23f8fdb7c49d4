/*
 * MIT License
 *
 * Copyright (c) 2026 Nabbar
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package queue implements the ordered accumulators behind every
// stream and listener socket: the read queue, write queue, connect
// queue and accept queue. The read, write and accept queues carry the
// watermark discipline of spec.md §4.6/§4.5 — high/low events that must
// strictly alternate; the connect state has no watermark.
package queue

// Mark identifies which watermark event, if any, a size transition produced.
type Mark uint8

const (
	MarkNone Mark = iota
	MarkHigh
	MarkLow
)

// Watermark tracks a low/high threshold pair over a size that may grow
// or shrink and reports alternating HIGH/LOW crossings. The first event
// after creation is always HIGH, on whichever update first reaches
// High; LOW never fires before it.
type Watermark struct {
	Low, High uint64
	breached  bool // true once HIGH has fired and no matching LOW yet
}

// NewWatermark builds a tracker for the given low/high pair. High==0
// means "no high watermark" (∞, per spec.md §6 defaults).
func NewWatermark(low, high uint64) Watermark {
	return Watermark{Low: low, High: high}
}

// Update reports the crossing produced by moving the tracked size to
// newSize, or MarkNone if no crossing occurred. HIGH fires only when
// transitioning from below high to >= high; LOW only fires after a
// matching HIGH, when size drops from above low to <= low.
func (w *Watermark) Update(newSize uint64) Mark {
	if w.High > 0 && !w.breached && newSize >= w.High {
		w.breached = true
		return MarkHigh
	}
	if w.breached && newSize <= w.Low {
		w.breached = false
		return MarkLow
	}
	return MarkNone
}

// Breached reports whether a HIGH event has fired with no matching LOW yet.
func (w *Watermark) Breached() bool { return w.breached }
