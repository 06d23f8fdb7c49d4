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
)

// ReceiveResult is delivered to an asynchronous receive's callback.
type ReceiveResult struct {
	Data []byte
	Err  error
}

// ReceiveRequest is one pending receive, synchronous or asynchronous.
type ReceiveRequest struct {
	MinSize  int
	MaxSize  int
	Deadline time.Time
	Token    Token
	Callback func(ReceiveResult)

	dl *timer.Timer
}

// ReadQueue is the ordered byte accumulator feeding receive operations,
// per spec.md §3/§4.6: a byte buffer, a low/high watermark, and a FIFO
// of pending receive requests.
type ReadQueue struct {
	mu    sync.Mutex
	buf   []byte
	wm    Watermark
	reqs  []*ReceiveRequest
	eof   bool
	wheel *timer.Wheel
}

// NewReadQueue builds an empty ReadQueue. wheel is used to arm
// per-request deadlines; it may be nil if the caller never sets a
// request's Deadline.
func NewReadQueue(low, high uint64, wheel *timer.Wheel) *ReadQueue {
	return &ReadQueue{wm: NewWatermark(low, high), wheel: wheel}
}

// Len reports the number of buffered, not-yet-consumed bytes.
func (q *ReadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Fill appends bytes read from the OS receive buffer and services any
// pending requests it can now satisfy. It returns the watermark event
// produced by the append, if any, and the list of requests to
// complete (already popped and marked).
func (q *ReadQueue) Fill(data []byte) (Mark, []completion) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.buf = append(q.buf, data...)
	mark := q.wm.Update(uint64(len(q.buf)))

	return mark, q.drainLocked()
}

// MarkEOF records that the peer has closed its sending half. Any
// request whose MinSize cannot be met by the remaining buffered bytes
// completes with errs.EOF; requests satisfiable by the remainder still
// succeed.
func (q *ReadQueue) MarkEOF() []completion {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.eof = true
	return q.drainLocked()
}

func (q *ReadQueue) drainLocked() []completion {
	var out []completion

	for len(q.reqs) > 0 {
		r := q.reqs[0]
		if len(q.buf) >= r.MinSize {
			n := r.MaxSize
			if n > len(q.buf) || n <= 0 {
				n = len(q.buf)
			}
			data := q.buf[:n]
			q.buf = q.buf[n:]
			q.reqs = q.reqs[1:]
			if r.dl != nil {
				r.dl.Close()
			}
			out = append(out, completion{r: r, res: ReceiveResult{Data: data}})
			continue
		}
		if q.eof {
			q.reqs = q.reqs[1:]
			if r.dl != nil {
				r.dl.Close()
			}
			var data []byte
			if len(q.buf) > 0 {
				data = q.buf
				q.buf = nil
			}
			out = append(out, completion{r: r, res: ReceiveResult{Data: data, Err: errs.New(errs.EOF, "peer closed send half")}})
			continue
		}
		break
	}
	return out
}

type completion struct {
	r   *ReceiveRequest
	res ReceiveResult
}

// Dispatch invokes each completion's callback; call this outside the
// queue's lock (Fill/MarkEOF already return with the lock released).
func Dispatch(cs []completion) {
	for _, c := range cs {
		if c.r.Callback != nil {
			c.r.Callback(c.res)
		}
	}
}

// TryReceive is the synchronous variant: if the buffer holds >=
// minSize bytes (or EOF with any remainder), it copies up to maxSize
// bytes into data and returns the count. Otherwise it returns
// WOULD_BLOCK without consuming anything.
func (q *ReadQueue) TryReceive(data []byte, minSize int) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.buf) >= minSize && minSize > 0 {
		n := copy(data, q.buf)
		q.buf = q.buf[n:]
		return n, nil
	}
	if q.eof {
		if len(q.buf) == 0 {
			return 0, errs.New(errs.EOF, "peer closed send half")
		}
		n := copy(data, q.buf)
		q.buf = q.buf[n:]
		return n, nil
	}
	return 0, errs.New(errs.WouldBlock, "insufficient buffered bytes")
}

// Enqueue appends an asynchronous receive request, arming its deadline
// timer if set, and immediately attempts to satisfy it (and any
// earlier still-pending requests) against already-buffered bytes.
func (q *ReadQueue) Enqueue(r *ReceiveRequest) []completion {
	q.mu.Lock()

	if !r.Deadline.IsZero() && q.wheel != nil {
		req := r
		req.dl = q.wheel.CreateTimer(timer.Options{ShowDeadline: true, OneShot: true}, func(ev timer.Event) {
			if ev != timer.EventDeadline {
				return
			}
			q.mu.Lock()
			for i, pending := range q.reqs {
				if pending == req {
					q.reqs = append(q.reqs[:i], q.reqs[i+1:]...)
					q.mu.Unlock()
					if req.Callback != nil {
						req.Callback(ReceiveResult{Err: errs.New(errs.WouldBlock, "receive deadline elapsed")})
					}
					return
				}
			}
			q.mu.Unlock()
		})
		req.dl.Schedule(r.Deadline)
	}

	q.reqs = append(q.reqs, r)
	out := q.drainLocked()
	q.mu.Unlock()
	return out
}

// Cancel fails the pending request matching token with CANCELLED, if any.
func (q *ReadQueue) Cancel(token Token) []completion {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, r := range q.reqs {
		if r.Token == token {
			q.reqs = append(q.reqs[:i], q.reqs[i+1:]...)
			if r.dl != nil {
				r.dl.Close()
			}
			return []completion{{r: r, res: ReceiveResult{Err: errs.New(errs.Cancelled, "receive cancelled")}}}
		}
	}
	return nil
}

// Reset fails every pending request with the given error (used on
// close / fatal errors) and clears the buffer.
func (q *ReadQueue) Reset(err error) []completion {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]completion, 0, len(q.reqs))
	for _, r := range q.reqs {
		if r.dl != nil {
			r.dl.Close()
		}
		out = append(out, completion{r: r, res: ReceiveResult{Err: err}})
	}
	q.reqs = nil
	q.buf = nil
	return out
}

// HighWatermarkBreached reports whether further OS reads should be
// throttled because the queue is at or above its high watermark.
func (q *ReadQueue) HighWatermarkBreached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.wm.Breached()
}

// Completion is the exported alias so callers outside the package
// (socket state machines) can hold and later Dispatch a batch.
type Completion = completion
