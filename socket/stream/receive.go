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
)

// Receive queues an asynchronous read request for at least minSize and
// at most maxSize bytes; cb is invoked once it can be satisfied, hits
// its deadline, or fails with EOF/a connection error. It is serviced
// immediately against already-buffered bytes, and triggers a drainRead
// pass in case the queue is short and the socket already has data
// sitting in the kernel's receive buffer.
func (s *Socket) Receive(minSize, maxSize int, deadline time.Time, cb func(queue.ReceiveResult)) (queue.Token, error) {
	if !s.receiveAllowed() {
		return 0, errs.New(errs.Invalid, "receive invalid from state %s", s.State())
	}

	req := &queue.ReceiveRequest{
		MinSize:  minSize,
		MaxSize:  maxSize,
		Deadline: deadline,
		Token:    queue.NewToken(),
		Callback: cb,
	}
	completions := s.rq.Enqueue(req)
	queue.Dispatch(completions)

	s.strd.Execute(s.drainRead)
	return req.Token, nil
}

// TryReceive is the synchronous variant: it never queues a request,
// returning errs.WouldBlock immediately if fewer than minSize bytes
// are already buffered.
func (s *Socket) TryReceive(buf []byte, minSize int) (int, error) {
	if !s.receiveAllowed() {
		return 0, errs.New(errs.Invalid, "receive invalid from state %s", s.State())
	}
	return s.rq.TryReceive(buf, minSize)
}

// CancelReceive aborts a still-pending receive request, failing its
// callback with errs.Cancelled.
func (s *Socket) CancelReceive(token queue.Token) {
	queue.Dispatch(s.rq.Cancel(token))
}

// drainRead pulls available bytes from the raw socket into the read
// queue, rate limited, until the kernel reports WOULD_BLOCK, EOF, or a
// fatal error.
func (s *Socket) drainRead() {
	buf := make([]byte, ioChunkSize)
	for {
		allowed, wait := s.recvLimiter.Consume(float64(len(buf)))
		if !allowed {
			s.scheduleReadRetry(wait)
			return
		}

		n, err := s.rawReceive(buf)
		if n > 0 {
			mark, completions := s.rq.Fill(buf[:n])
			s.dispatchReadMark(mark)
			queue.Dispatch(completions)
		}
		if err != nil {
			if errs.Is(err, errs.WouldBlock) {
				return
			}
			if errs.Is(err, errs.EOF) {
				queue.Dispatch(s.rq.MarkEOF())
				return
			}
			s.failRead(err)
			return
		}
	}
}

func (s *Socket) scheduleReadRetry(wait time.Duration) {
	time.AfterFunc(wait, func() { s.strd.Execute(s.drainRead) })
}

func (s *Socket) failRead(err error) {
	queue.Dispatch(s.rq.Reset(err))
	if errs.Is(err, errs.ConnectionDead) || errs.Is(err, errs.ConnectionReset) {
		_ = s.Close(err)
	}
}
