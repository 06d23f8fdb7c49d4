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

package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Wheel drives a min-heap of armed timers, guaranteeing deadlines fire
// in non-decreasing expiry order modulo scheduling jitter. Grounded on
// the timedHeap used by the proactor watcher in the retrieved gaio
// sources: a container/heap ordered by expiry with an index field kept
// current on every swap so arm/disarm are O(log n).
type Wheel struct {
	mu   sync.Mutex
	h    wheelHeap
	wake chan struct{}
	stop chan struct{}
	once sync.Once
}

// NewWheel starts a Wheel's dispatch goroutine and returns it running.
func NewWheel() *Wheel {
	w := &Wheel{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	go w.loop()
	return w
}

// CreateTimer allocates a Timer bound to this wheel; it is not armed
// until Schedule is called.
func (w *Wheel) CreateTimer(opt Options, sess Session) *Timer {
	return &Timer{w: w, opt: opt, sess: sess, index: -1}
}

// Stop signals the dispatch goroutine to exit and returns without
// waiting for it; a dispatch pass already under way, or one racing the
// signal, may still fire timers after Stop returns.
func (w *Wheel) Stop() {
	w.once.Do(func() { close(w.stop) })
}

func (w *Wheel) arm(t *Timer) {
	w.mu.Lock()
	if t.index >= 0 {
		heap.Fix(&w.h, t.index)
	} else {
		heap.Push(&w.h, t)
	}
	w.mu.Unlock()
	w.poke()
}

func (w *Wheel) disarm(t *Timer) {
	w.mu.Lock()
	if t.index >= 0 {
		heap.Remove(&w.h, t.index)
	}
	w.mu.Unlock()
}

func (w *Wheel) poke() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Wheel) loop() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		d := w.nextDelay()
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)

		select {
		case <-w.stop:
			return
		case <-w.wake:
			continue
		case <-timer.C:
			w.fireExpired()
		}
	}
}

func (w *Wheel) nextDelay() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.h) == 0 {
		return time.Hour
	}
	d := time.Until(w.h[0].expiry)
	if d < 0 {
		return 0
	}
	return d
}

func (w *Wheel) fireExpired() {
	now := time.Now()
	for {
		w.mu.Lock()
		if len(w.h) == 0 || w.h[0].expiry.After(now) {
			w.mu.Unlock()
			return
		}
		t := heap.Pop(&w.h).(*Timer)
		w.mu.Unlock()
		t.fire(now)
	}
}

// wheelHeap implements container/heap.Interface ordered by Timer.expiry.
type wheelHeap []*Timer

func (h wheelHeap) Len() int { return len(h) }
func (h wheelHeap) Less(i, j int) bool { return h[i].expiry.Before(h[j].expiry) }
func (h wheelHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *wheelHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *wheelHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
