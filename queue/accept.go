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

// AcceptResult is delivered to a pending accept's callback.
type AcceptResult struct {
	Conn any // *stream.Socket, typed any here to avoid an import cycle
	Err  error
}

// AcceptRequest is one pending accept() call, synchronous or
// asynchronous, per spec.md §4.5.
type AcceptRequest struct {
	Deadline time.Time
	Token    Token
	Greedy   bool
	Callback func(AcceptResult)

	dl *timer.Timer
}

// AcceptQueue holds accepted-but-not-yet-taken connections plus the
// FIFO of pending accept requests, with the same watermark discipline
// as the read/write queues.
type AcceptQueue struct {
	mu    sync.Mutex
	ready []any
	reqs  []*AcceptRequest
	wm    Watermark
	wheel *timer.Wheel
}

func NewAcceptQueue(low, high uint64, wheel *timer.Wheel) *AcceptQueue {
	return &AcceptQueue{wm: NewWatermark(low, high), wheel: wheel}
}

// Len reports the number of accepted sockets awaiting retrieval.
func (q *AcceptQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ready)
}

// Offer hands a freshly accepted connection to the next pending
// request, or enqueues it for later retrieval if none is pending. It
// returns the watermark event produced, if any, and a completion to
// dispatch (nil if the connection was merely enqueued).
func (q *AcceptQueue) Offer(conn any) (Mark, *acceptCompletion) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.reqs) > 0 {
		r := q.reqs[0]
		q.reqs = q.reqs[1:]
		if r.dl != nil {
			r.dl.Close()
		}
		return MarkNone, &acceptCompletion{r: r, res: AcceptResult{Conn: conn}}
	}

	q.ready = append(q.ready, conn)
	mark := q.wm.Update(uint64(len(q.ready)))
	return mark, nil
}

type acceptCompletion struct {
	r   *AcceptRequest
	res AcceptResult
}

// DispatchAccept invokes a completion's callback.
func DispatchAccept(c *acceptCompletion) {
	if c == nil || c.r.Callback == nil {
		return
	}
	c.r.Callback(c.res)
}

// TryTake is the synchronous accept variant: pops a ready connection,
// or returns WOULD_BLOCK if none is queued.
func (q *AcceptQueue) TryTake() (any, Mark, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ready) == 0 {
		return nil, MarkNone, errs.New(errs.WouldBlock, "no accepted connection ready")
	}
	conn := q.ready[0]
	q.ready = q.ready[1:]
	mark := q.wm.Update(uint64(len(q.ready)))
	return conn, mark, nil
}

// Enqueue submits an asynchronous accept request, servicing it
// immediately if a connection is already ready.
func (q *AcceptQueue) Enqueue(r *AcceptRequest) (Mark, *acceptCompletion) {
	q.mu.Lock()

	if len(q.ready) > 0 {
		conn := q.ready[0]
		q.ready = q.ready[1:]
		mark := q.wm.Update(uint64(len(q.ready)))
		q.mu.Unlock()
		return mark, &acceptCompletion{r: r, res: AcceptResult{Conn: conn}}
	}

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
						req.Callback(AcceptResult{Err: errs.New(errs.WouldBlock, "accept deadline elapsed")})
					}
					return
				}
			}
			q.mu.Unlock()
		})
		req.dl.Schedule(r.Deadline)
	}

	q.reqs = append(q.reqs, r)
	q.mu.Unlock()
	return MarkNone, nil
}

// Cancel fails the pending accept matching token with CANCELLED.
func (q *AcceptQueue) Cancel(token Token) *acceptCompletion {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, r := range q.reqs {
		if r.Token == token {
			q.reqs = append(q.reqs[:i], q.reqs[i+1:]...)
			if r.dl != nil {
				r.dl.Close()
			}
			return &acceptCompletion{r: r, res: AcceptResult{Err: errs.New(errs.Cancelled, "accept cancelled")}}
		}
	}
	return nil
}

// Reset fails every pending accept with err and drops any unretrieved
// connections (used on listener close).
func (q *AcceptQueue) Reset(err error) []any {
	q.mu.Lock()
	pending := q.reqs
	ready := q.ready
	q.reqs = nil
	q.ready = nil
	q.mu.Unlock()

	for _, r := range pending {
		if r.dl != nil {
			r.dl.Close()
		}
		if r.Callback != nil {
			r.Callback(AcceptResult{Err: err})
		}
	}
	return ready
}

// AcceptCompletion is exported for callers that need to hold a batch.
type AcceptCompletion = acceptCompletion
