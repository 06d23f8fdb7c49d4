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
	"github.com/nabbar/ntc/transport"
)

// SendTo transmits data to ep whole or not at all: a datagram cannot
// be partially sent, so instead of being queued like a stream send
// entry it retries in place: a rate-limiter shortfall after sleeping the
// limiter's estimated wait, a kernel WOULD_BLOCK after WaitWritable. It
// gives up only at deadline; with a zero deadline it retries without
// bound.
func (s *Socket) SendTo(data []byte, ep transport.Endpoint, deadline time.Time) (int, error) {
	if s.State() == StateClosed || s.State() == StateNew || s.State() == StateOpened {
		return 0, errs.New(errs.Invalid, "send invalid from state %s", s.State())
	}

	for {
		allowed, wait := s.sendLimiter.Consume(float64(len(data)))
		if !allowed {
			if !deadline.IsZero() && time.Now().Add(wait).After(deadline) {
				return 0, errs.New(errs.WouldBlock, "rate limit wait exceeds deadline")
			}
			time.Sleep(wait)
			continue
		}

		n, err := s.sock.SendTo(data, ep)
		if err == nil {
			return n, nil
		}
		if !errs.Is(err, errs.WouldBlock) {
			return n, err
		}
		if err := s.sock.WaitWritable(deadline); err != nil {
			return 0, err
		}
	}
}

// Send transmits to the connected default peer; valid only once
// Connect has succeeded.
func (s *Socket) Send(data []byte, deadline time.Time) (int, error) {
	s.mu.RLock()
	peer, ok := s.defaultPeer, s.hasPeer
	s.mu.RUnlock()
	if !ok {
		return 0, errs.New(errs.Invalid, "send requires a connected default peer; use SendTo")
	}
	return s.SendTo(data, peer, deadline)
}
