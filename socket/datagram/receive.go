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

package datagram

import (
	"time"

	"github.com/nabbar/ntc/errs"
	"github.com/nabbar/ntc/queue"
)

// ReceiveFrom queues an asynchronous read for the next datagram,
// serviced immediately if one is already buffered.
func (s *Socket) ReceiveFrom(deadline time.Time, cb func(Datagram, error)) queue.Token {
	token := queue.NewToken()
	req := &pendingReceive{token: token, deadline: deadline, cb: cb}

	s.mu.Lock()
	if len(s.ready) > 0 {
		d := s.ready[0]
		s.ready = s.ready[1:]
		mark := s.wm.Update(uint64(len(s.ready)))
		s.mu.Unlock()
		s.dispatchMark(mark)
		if cb != nil {
			cb(d, nil)
		}
		return token
	}
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()

	if !deadline.IsZero() {
		time.AfterFunc(time.Until(deadline), func() { s.expireReceive(token) })
	}
	return token
}

// TryReceiveFrom is the synchronous variant: pops a ready datagram or
// returns errs.WouldBlock.
func (s *Socket) TryReceiveFrom() (Datagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ready) == 0 {
		return Datagram{}, errs.New(errs.WouldBlock, "no datagram ready")
	}
	d := s.ready[0]
	s.ready = s.ready[1:]
	mark := s.wm.Update(uint64(len(s.ready)))
	s.dispatchMark(mark)
	return d, nil
}

// CancelReceive aborts a still-pending receive, failing its callback
// with errs.Cancelled.
func (s *Socket) CancelReceive(token queue.Token) {
	s.mu.Lock()
	for i, r := range s.reqs {
		if r.token == token {
			s.reqs = append(s.reqs[:i], s.reqs[i+1:]...)
			s.mu.Unlock()
			if r.cb != nil {
				r.cb(Datagram{}, errs.New(errs.Cancelled, "receive cancelled"))
			}
			return
		}
	}
	s.mu.Unlock()
}

func (s *Socket) expireReceive(token queue.Token) {
	s.mu.Lock()
	for i, r := range s.reqs {
		if r.token == token {
			s.reqs = append(s.reqs[:i], s.reqs[i+1:]...)
			s.mu.Unlock()
			if r.cb != nil {
				r.cb(Datagram{}, errs.New(errs.WouldBlock, "receive deadline elapsed"))
			}
			return
		}
	}
	s.mu.Unlock()
}

// drainRead pulls every currently available datagram off the raw
// socket, servicing pending requests FIFO and buffering the rest.
func (s *Socket) drainRead() {
	buf := make([]byte, datagramMTU)
	for {
		allowed, wait := s.recvLimiter.Consume(float64(len(buf)))
		if !allowed {
			time.AfterFunc(wait, func() { s.strd.Execute(s.drainRead) })
			return
		}

		n, from, err := s.sock.ReceiveFrom(buf)
		if err != nil {
			if !errs.Is(err, errs.WouldBlock) {
				s.log.Warn("datagram: receive failed", nil)
			}
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		d := Datagram{Data: data, From: from, Timestamp: time.Now()}

		s.mu.Lock()
		if len(s.reqs) > 0 {
			r := s.reqs[0]
			s.reqs = s.reqs[1:]
			s.mu.Unlock()
			if r.cb != nil {
				r.cb(d, nil)
			}
			continue
		}
		s.ready = append(s.ready, d)
		mark := s.wm.Update(uint64(len(s.ready)))
		s.mu.Unlock()
		s.dispatchMark(mark)
	}
}
