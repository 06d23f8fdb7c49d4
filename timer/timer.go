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

// Package timer implements the deadline facility shared by every
// asynchronous operation in this module: a min-heap wheel ordering
// timers by expiry, supporting one-shot or periodic re-arming and
// DEADLINE/CANCELED/CLOSED event delivery.
package timer

import (
	"sync"
	"time"
)

// Event is one of the three outcomes a Timer's session can observe.
type Event uint8

const (
	EventDeadline Event = iota
	EventCanceled
	EventClosed
)

// Options selects which events are delivered and whether the timer
// re-arms itself after firing.
type Options struct {
	ShowDeadline bool
	ShowCanceled bool
	ShowClosed   bool
	OneShot      bool
}

// DefaultOptions shows every event and fires once, the common case for
// per-operation deadlines.
func DefaultOptions() Options {
	return Options{ShowDeadline: true, ShowCanceled: true, ShowClosed: true, OneShot: true}
}

// Session receives timer events. Handlers run on the Wheel's dispatch
// goroutine; callers that need per-socket serialisation must bounce
// through their own strand.
type Session func(ev Event)

// Timer is a single scheduled deadline; use Wheel.CreateTimer to obtain one.
type Timer struct {
	mu      sync.Mutex
	w       *Wheel
	opt     Options
	sess    Session
	period  time.Duration
	expiry  time.Time
	armed   bool
	closed  bool
	index   int // heap index, maintained by wheelHeap
}

// Schedule arms the timer to fire at t. Re-scheduling an already-armed
// timer cancels the prior arming (CANCELED fires if shown) before the
// new one takes effect.
func (t *Timer) Schedule(at time.Time) {
	t.mu.Lock()
	wasArmed := t.armed
	t.expiry = at
	t.armed = true
	t.mu.Unlock()

	if wasArmed {
		t.deliver(EventCanceled)
	}
	t.w.arm(t)
}

// ScheduleAfter is a convenience for Schedule(time.Now().Add(d)).
func (t *Timer) ScheduleAfter(d time.Duration) { t.Schedule(time.Now().Add(d)) }

// ScheduleEvery arms a periodic timer that re-arms itself for another
// d after each firing, ignoring Options.OneShot.
func (t *Timer) ScheduleEvery(d time.Duration) {
	t.mu.Lock()
	t.period = d
	t.opt.OneShot = false
	t.mu.Unlock()
	t.Schedule(time.Now().Add(d))
}

// Cancel disarms the timer without closing it; CANCELED fires if shown.
func (t *Timer) Cancel() {
	t.mu.Lock()
	if !t.armed {
		t.mu.Unlock()
		return
	}
	t.armed = false
	t.mu.Unlock()

	t.w.disarm(t)
	t.deliver(EventCanceled)
}

// Close cancels (if armed) and releases the timer. CANCELED precedes
// CLOSED when both are shown, per the wheel's ordering guarantee.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	wasArmed := t.armed
	t.armed = false
	t.closed = true
	t.mu.Unlock()

	if wasArmed {
		t.w.disarm(t)
		t.deliver(EventCanceled)
	}
	t.deliver(EventClosed)
}

func (t *Timer) deliver(ev Event) {
	if t.sess == nil {
		return
	}
	switch ev {
	case EventDeadline:
		if !t.opt.ShowDeadline {
			return
		}
	case EventCanceled:
		if !t.opt.ShowCanceled {
			return
		}
	case EventClosed:
		if !t.opt.ShowClosed {
			return
		}
	}
	t.sess(ev)
}

func (t *Timer) fire(now time.Time) {
	t.mu.Lock()
	if t.closed || !t.armed {
		t.mu.Unlock()
		return
	}
	if t.opt.OneShot {
		t.armed = false
	} else {
		t.expiry = t.expiry.Add(t.period)
		if !t.expiry.After(now) {
			t.expiry = now.Add(t.period)
		}
	}
	periodic := !t.opt.OneShot
	t.mu.Unlock()

	t.deliver(EventDeadline)

	if periodic {
		t.w.arm(t)
	}
}
