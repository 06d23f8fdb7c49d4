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

package stream

import (
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/queue"
	"github.com/nabbar/ntc/transport"
)

// Send queues data for transmission and returns its token immediately;
// cb (if non-nil) is invoked once the entry is fully sent or fails.
// The synchronous copy-attempt spec.md §4.6 describes as the fast path
// happens inside drainWrite, triggered right after enqueue so a writable
// socket with an empty queue sends without waiting for a readiness event.
func (s *Socket) Send(data []byte, deadline time.Time, cb func(queue.SendResult)) (queue.Token, error) {
	if !s.sendAllowed() {
		return 0, errs.New(errs.Invalid, "send invalid from state %s", s.State())
	}

	entry := &queue.SendEntry{
		Payload:  transport.ConstBuffer(data),
		Deadline: deadline,
		Token:    queue.NewToken(),
		Callback: cb,
	}
	mark := s.wq.Enqueue(entry)
	s.dispatchWriteMark(mark)

	s.strd.Execute(s.drainWrite)
	return entry.Token, nil
}

// CancelSend aborts a still-queued send entry, failing its callback
// with errs.Cancelled; a no-op if the entry already drained.
func (s *Socket) CancelSend(token queue.Token) {
	mark := s.wq.Cancel(token)
	s.dispatchWriteMark(mark)
}

// drainWrite greedily flushes the write queue's head entry against the
// raw socket, rate limited, stopping at the first errs.WouldBlock (the
// engine's registration will re-invoke it once writable again).
func (s *Socket) drainWrite() {
	for {
		e := s.wq.Front()
		if e == nil {
			return
		}

		remaining := e.Remaining()
		if remaining <= 0 {
			return
		}
		want := remaining
		if want > ioChunkSize {
			want = ioChunkSize
		}

		allowed, wait := s.sendLimiter.Consume(float64(want))
		if !allowed {
			s.scheduleWriteRetry(wait)
			return
		}

		chunk := e.Payload.Bytes()[e.Sent() : e.Sent()+want]
		n, err := s.rawSend(chunk)
		if n > 0 {
			mark := s.wq.Advance(n)
			s.dispatchWriteMark(mark)
		}
		if err != nil {
			if errs.Is(err, errs.WouldBlock) {
				return
			}
			s.failWrite(err)
			return
		}
	}
}

func (s *Socket) scheduleWriteRetry(wait time.Duration) {
	time.AfterFunc(wait, func() { s.strd.Execute(s.drainWrite) })
}

// failWrite drops every queued send entry with err (the connection is
// no longer usable for writes) and closes the socket if err indicates
// a dead connection.
func (s *Socket) failWrite(err error) {
	s.wq.Reset(err)
	if errs.Is(err, errs.ConnectionDead) || errs.Is(err, errs.ConnectionReset) {
		_ = s.Close(err)
	}
}
