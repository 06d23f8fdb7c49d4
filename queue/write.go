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

package queue

import (
	"sync"
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/timer"
	"github.com/nabbar/ntc/transport"
)

// SendResult is delivered to a send entry's callback on completion.
type SendResult struct {
	Bytes int
	Err   error
}

// SendEntry is one outbound segment queued by send(): a blob or
// file-backed payload, an optional per-entry deadline, and the
// callback to notify on completion, per spec.md §3.
type SendEntry struct {
	ID       uint64
	Payload  transport.Buffer
	Deadline time.Time
	Token    Token
	Callback func(SendResult)

	sent int64 // bytes already copied to the socket send buffer
	dl   *timer.Timer
}

// Remaining reports the bytes of this entry not yet transmitted.
func (e *SendEntry) Remaining() int64 { return e.Payload.Size() - e.sent }

// Sent reports bytes already copied to the socket send buffer.
func (e *SendEntry) Sent() int64 { return e.sent }

// WriteQueue is the FIFO of outbound send entries plus a low/high
// watermark on total pending bytes, per spec.md §3/§4.6.
type WriteQueue struct {
	mu     sync.Mutex
	q      []*SendEntry
	total  int64
	wm     Watermark
	wheel  *timer.Wheel
	seq    uint64
	onMark func(Mark)
}

func NewWriteQueue(low, high uint64, wheel *timer.Wheel) *WriteQueue {
	return &WriteQueue{wm: NewWatermark(low, high), wheel: wheel}
}

// OnMark registers fn to be invoked whenever a watermark crossing is
// produced outside the caller's own Enqueue/Advance/Cancel call —
// currently only a deadline timer popping an unsent entry
// (failIfUnsent), which runs on the timer wheel's own goroutine and so
// cannot hand its Mark back through a return value the way the
// synchronous methods do.
func (q *WriteQueue) OnMark(fn func(Mark)) {
	q.mu.Lock()
	q.onMark = fn
	q.mu.Unlock()
}

// Len reports queued entries.
func (q *WriteQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.q)
}

// TotalBytes reports total bytes still pending across all entries.
func (q *WriteQueue) TotalBytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.total
}

// Enqueue appends e, arming its deadline timer (if set) to fail the
// entry with WOULD_BLOCK if it expires before any byte of it has been
// copied to the socket send buffer — the whole-entry-failure semantics
// spec.md §9 leaves as an open question and this implementation
// resolves explicitly in favor of. It returns the watermark event
// produced, if any.
func (q *WriteQueue) Enqueue(e *SendEntry) Mark {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	e.ID = q.seq
	q.q = append(q.q, e)
	q.total += e.Payload.Size()

	if !e.Deadline.IsZero() && q.wheel != nil {
		entry := e
		entry.dl = q.wheel.CreateTimer(timer.Options{ShowDeadline: true, OneShot: true}, func(ev timer.Event) {
			if ev != timer.EventDeadline {
				return
			}
			q.failIfUnsent(entry, errs.New(errs.WouldBlock, "send deadline elapsed before first byte"))
		})
		entry.dl.Schedule(e.Deadline)
	}

	return q.wm.Update(uint64(q.total))
}

func (q *WriteQueue) failIfUnsent(e *SendEntry, err error) {
	q.mu.Lock()
	if e.sent > 0 {
		q.mu.Unlock()
		return
	}
	idx := -1
	for i, x := range q.q {
		if x == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	q.q = append(q.q[:idx], q.q[idx+1:]...)
	q.total -= e.Remaining()
	mark := q.wm.Update(uint64(q.total))
	onMark := q.onMark
	q.mu.Unlock()

	if e.Callback != nil {
		e.Callback(SendResult{Bytes: 0, Err: err})
	}
	if mark != MarkNone && onMark != nil {
		onMark(mark)
	}
}

// Front returns the head entry without removing it, or nil if empty.
func (q *WriteQueue) Front() *SendEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.q) == 0 {
		return nil
	}
	return q.q[0]
}

// Advance records n more bytes of the head entry as transmitted. If
// the entry is now fully sent, it is popped and its callback invoked
// with success; the watermark event produced by the drop, if any, is
// returned alongside.
func (q *WriteQueue) Advance(n int) Mark {
	q.mu.Lock()
	if len(q.q) == 0 {
		q.mu.Unlock()
		return MarkNone
	}
	e := q.q[0]
	e.sent += int64(n)
	q.total -= int64(n)

	var mark Mark
	var cb func(SendResult)
	if e.Remaining() <= 0 {
		q.q = q.q[1:]
		if e.dl != nil {
			e.dl.Close()
		}
		mark = q.wm.Update(uint64(q.total))
		cb = e.Callback
	}
	q.mu.Unlock()

	if cb != nil {
		cb(SendResult{Bytes: int(e.sent), Err: nil})
	}
	return mark
}

// Cancel fails the entry matching token with CANCELLED.
func (q *WriteQueue) Cancel(token Token) Mark {
	q.mu.Lock()
	idx := -1
	for i, e := range q.q {
		if e.Token == token {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return MarkNone
	}
	e := q.q[idx]
	q.q = append(q.q[:idx], q.q[idx+1:]...)
	q.total -= e.Remaining()
	if e.dl != nil {
		e.dl.Close()
	}
	mark := q.wm.Update(uint64(q.total))
	q.mu.Unlock()

	if e.Callback != nil {
		e.Callback(SendResult{Bytes: int(e.sent), Err: errs.New(errs.Cancelled, "send cancelled")})
	}
	return mark
}

// Reset fails every queued entry with err (used on immediate shutdown
// / close) and empties the queue.
func (q *WriteQueue) Reset(err error) {
	q.mu.Lock()
	entries := q.q
	q.q = nil
	q.total = 0
	q.mu.Unlock()

	for _, e := range entries {
		if e.dl != nil {
			e.dl.Close()
		}
		if e.Callback != nil {
			e.Callback(SendResult{Bytes: int(e.sent), Err: err})
		}
	}
}

// HighWatermarkBreached reports whether WOULD_BLOCK may be returned to
// callers because the high watermark is currently breached.
func (q *WriteQueue) HighWatermarkBreached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.wm.Breached()
}
